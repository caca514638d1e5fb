// Package challenge runs timed practice sessions over the question store:
// question selection, the per-question reveal/judge workflow, two independent
// countdowns, and the final score summary. Sessions are pure state machines
// driven by explicit transitions; the ticker driver lives in the manager.
package challenge

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/futuredo/interview-app/internal/content"
	"github.com/futuredo/interview-app/internal/model"
	"github.com/futuredo/interview-app/internal/store"
)

var (
	// ErrFinished is returned by transitions on a completed or abandoned session.
	ErrFinished = errors.New("challenge: session finished")
	// ErrNotRevealed is returned when judging before the answer was shown.
	ErrNotRevealed = errors.New("challenge: answer not revealed")
)

// Session is one timed run through a selected subset of the question bank.
// The config is captured at start and immutable for the session's lifetime.
type Session struct {
	mu sync.Mutex

	id    string
	cfg   model.ChallengeConfig
	store *store.Store

	questions []model.Question
	index     int
	revealed  bool
	score     int
	results   []model.QuestionResult

	completed   bool
	timeUp      bool
	abandoned   bool
	startedAt   time.Time
	completedAt time.Time
	elapsed     int

	totalRemaining    int
	questionRemaining int
	totalEpoch        int
	questionEpoch     int

	stop     chan struct{}
	stopOnce sync.Once
}

func newSession(st *store.Store, cfg model.ChallengeConfig) *Session {
	selected := selectQuestions(cfg, st.QuestionBank(), st.Favorites(), st.WrongQuestions())
	return &Session{
		id:                uuid.NewString(),
		cfg:               cfg,
		store:             st,
		questions:         selected,
		startedAt:         time.Now(),
		totalRemaining:    cfg.TotalTimeLimit,
		questionRemaining: cfg.PerQuestionTimeLimit,
		totalEpoch:        1,
		questionEpoch:     1,
		stop:              make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the active (immutable) session config.
func (s *Session) Config() model.ChallengeConfig { return s.cfg }

// NoQuestions reports whether selection produced an empty working set.
func (s *Session) NoQuestions() bool { return len(s.questions) == 0 }

// ShowAnswer reveals the current question's answer.
func (s *Session) ShowAnswer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return ErrFinished
	}
	s.revealed = true
	return nil
}

// Judge records the user's mastery judgment for the current question and
// advances the session. The answer must have been revealed first.
func (s *Session) Judge(mastered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return ErrFinished
	}
	if !s.revealed {
		return ErrNotRevealed
	}
	s.judgeLocked(mastered)
	return nil
}

// judgeLocked applies a judgment: practice count first, then either
// completion+score or a wrong mark, then advance or finish.
func (s *Session) judgeLocked(mastered bool) {
	q := s.questions[s.index]
	s.store.IncrementPracticeCount(q.ID)
	if mastered {
		s.score++
		s.store.CompleteQuestion(q.ID)
	} else {
		s.store.MarkAsWrong(q.ID)
	}
	s.results = append(s.results, model.QuestionResult{
		QuestionID: q.ID,
		Title:      q.Title,
		Mastered:   mastered,
	})

	if s.index < len(s.questions)-1 {
		s.index++
		s.revealed = false
		s.questionRemaining = s.cfg.PerQuestionTimeLimit
		s.questionEpoch++
	} else {
		s.completeLocked()
	}
}

// Tick advances both countdowns by one second. It returns true once the
// session is finished and needs no further ticks.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return true
	}

	if s.cfg.TotalTimeLimit > 0 {
		s.totalRemaining--
		if s.totalRemaining <= 0 {
			s.timeUp = true
			s.completeLocked()
			return true
		}
	}

	if s.cfg.PerQuestionTimeLimit > 0 {
		s.questionRemaining--
		if s.questionRemaining <= 0 {
			// Expiry counts as "needs review", answer revealed or not.
			s.judgeLocked(false)
		}
	}

	return s.finishedLocked()
}

// Abandon ends the session without a completion record. Judgments already
// committed to the store stay applied.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return
	}
	s.abandoned = true
	s.signalStop()
}

func (s *Session) finishedLocked() bool {
	return s.completed || s.abandoned
}

func (s *Session) completeLocked() {
	s.completed = true
	s.completedAt = time.Now()
	s.elapsed = int(s.completedAt.Sub(s.startedAt).Seconds())
	s.signalStop()
}

func (s *Session) signalStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Summary returns the final score summary. Valid once completed.
func (s *Session) Summary() (model.ChallengeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed {
		return model.ChallengeResult{}, false
	}
	return model.ChallengeResult{
		Config:       s.cfg,
		Questions:    append([]model.QuestionResult{}, s.results...),
		CorrectCount: s.score,
		TotalCount:   len(s.questions),
		TotalTime:    s.elapsed,
		TimeUp:       s.timeUp,
		CompletedAt:  s.completedAt,
	}, true
}

// QuestionView is the display form of the current question. Answer stays
// empty until the session reveals it.
type QuestionView struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Difficulty model.Difficulty `json:"difficulty"`
	Tags       []string         `json:"tags"`
	Prompt     string           `json:"prompt"`
	Answer     string           `json:"answer,omitempty"`
	Favorite   bool             `json:"favorite"`
	Wrong      bool             `json:"wrong"`
	UserNote   string           `json:"userNote,omitempty"`
}

// State is a point-in-time view of a session for API consumers. The timer
// keys change whenever the corresponding countdown restarts, so consumers
// reset their displays on a key change.
type State struct {
	SessionID         string                `json:"sessionId"`
	Config            model.ChallengeConfig `json:"config"`
	Index             int                   `json:"index"`
	Total             int                   `json:"total"`
	Score             int                   `json:"score"`
	Revealed          bool                  `json:"revealed"`
	Completed         bool                  `json:"completed"`
	TimeUp            bool                  `json:"timeUp"`
	Abandoned         bool                  `json:"abandoned"`
	TotalRemaining    int                   `json:"totalRemaining"`
	QuestionRemaining int                   `json:"questionRemaining"`
	TotalTimerKey     int                   `json:"totalTimerKey"`
	QuestionTimerKey  int                   `json:"questionTimerKey"`
	Question          *QuestionView         `json:"question,omitempty"`
}

// State builds the current view of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		SessionID:         s.id,
		Config:            s.cfg,
		Index:             s.index,
		Total:             len(s.questions),
		Score:             s.score,
		Revealed:          s.revealed,
		Completed:         s.completed,
		TimeUp:            s.timeUp,
		Abandoned:         s.abandoned,
		TotalRemaining:    s.totalRemaining,
		QuestionRemaining: s.questionRemaining,
		TotalTimerKey:     s.totalEpoch,
		QuestionTimerKey:  s.questionEpoch,
	}
	if !s.finishedLocked() && s.index < len(s.questions) {
		q := s.questions[s.index]
		note, _ := s.store.UserNote(q.ID)
		view := &QuestionView{
			ID:         q.ID,
			Title:      q.Title,
			Difficulty: q.Difficulty,
			Tags:       append([]string{}, q.Tags...),
			Prompt:     content.QuestionSection(q.Content),
			Favorite:   s.store.IsFavorite(q.ID),
			Wrong:      s.store.IsWrong(q.ID),
			UserNote:   note,
		}
		if s.revealed {
			view.Answer = s.effectiveAnswer(q)
		}
		st.Question = view
	}
	return st
}

// effectiveAnswer resolves the displayed answer: admin override when present
// and non-blank, else the extracted answer section, else the raw content.
func (s *Session) effectiveAnswer(q model.Question) string {
	if override, ok := s.store.AdminOverride(q.ID); ok && strings.TrimSpace(override) != "" {
		return override
	}
	if extracted := content.AnswerSection(q.Content); strings.TrimSpace(extracted) != "" {
		return extracted
	}
	return q.Content
}
