package challenge

import (
	"math/rand"
	"sort"

	"github.com/futuredo/interview-app/internal/content"
	"github.com/futuredo/interview-app/internal/model"
)

// selectQuestions builds the working set for a session: filter the bank by
// source and difficulty, order by mode, then cap at the configured count.
// An empty result is a valid outcome, not an error.
func selectQuestions(cfg model.ChallengeConfig, bank []model.Question, favorites, wrong map[string]bool) []model.Question {
	var pool []model.Question
	for _, q := range bank {
		if cfg.QuestionSource == model.SourceFavorites && !favorites[q.ID] {
			continue
		}
		if cfg.QuestionSource == model.SourceWrong && !wrong[q.ID] {
			continue
		}
		if cfg.Difficulty != model.DifficultyAll && q.Difficulty != cfg.Difficulty {
			continue
		}
		pool = append(pool, q)
	}

	if cfg.OrderMode == model.OrderSequence {
		sort.SliceStable(pool, func(i, j int) bool {
			return content.TitleOrdinal(pool[i].Title) < content.TitleOrdinal(pool[j].Title)
		})
	} else {
		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	if cfg.QuestionCount > 0 && len(pool) > cfg.QuestionCount {
		pool = pool[:cfg.QuestionCount]
	}
	return pool
}
