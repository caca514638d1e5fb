package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futuredo/interview-app/internal/model"
)

// questionItem is a bank entry decorated with the caller's study state.
type questionItem struct {
	model.Question
	Favorite      bool   `json:"favorite"`
	Wrong         bool   `json:"wrong"`
	Completed     bool   `json:"completed"`
	WrongCount    int    `json:"wrongCount,omitempty"`
	PracticeCount int    `json:"practiceCount,omitempty"`
	Rating        int    `json:"rating,omitempty"`
	UserNote      string `json:"userNote,omitempty"`
	AdminAnswer   string `json:"adminAnswer,omitempty"`
}

func (h *Handler) questionItem(q model.Question) questionItem {
	item := questionItem{
		Question:   q,
		Favorite:   h.store.IsFavorite(q.ID),
		Wrong:      h.store.IsWrong(q.ID),
		Completed:  h.store.IsCompleted(q.ID),
		WrongCount: h.store.WrongCount(q.ID),
		Rating:     h.store.Rating(q.ID),
	}
	if n, ok := h.store.PracticeCount(q.ID); ok {
		item.PracticeCount = n
	}
	if note, ok := h.store.UserNote(q.ID); ok {
		item.UserNote = note
	}
	if answer, ok := h.store.AdminOverride(q.ID); ok {
		item.AdminAnswer = answer
	}
	return item
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	bank := h.store.QuestionBank()
	items := make([]questionItem, 0, len(bank))
	for _, q := range bank {
		items = append(items, h.questionItem(q))
	}
	JSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := h.store.GetQuestion(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "question not found")
		return
	}
	JSON(w, http.StatusOK, h.questionItem(q))
}

// questionID resolves the {id} URL param against the bank. Rejecting unknown
// ids here keeps clients from minting derived entries no delete can reach.
func (h *Handler) questionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.GetQuestion(id); !ok {
		Error(w, http.StatusNotFound, "question not found")
		return "", false
	}
	return id, true
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.questionID(w, r)
	if !ok {
		return
	}
	h.store.ToggleFavorite(id)
	JSON(w, http.StatusOK, map[string]bool{"favorite": h.store.IsFavorite(id)})
}

func (h *Handler) handleToggleWrong(w http.ResponseWriter, r *http.Request) {
	id, ok := h.questionID(w, r)
	if !ok {
		return
	}
	h.store.ToggleWrong(id)
	JSON(w, http.StatusOK, map[string]bool{"wrong": h.store.IsWrong(id)})
}

func (h *Handler) handleRemoveFromWrong(w http.ResponseWriter, r *http.Request) {
	id, ok := h.questionID(w, r)
	if !ok {
		return
	}
	h.store.RemoveFromWrong(id)
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type ratingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

func (h *Handler) handleSetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := h.questionID(w, r)
	if !ok {
		return
	}
	var req ratingRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	h.store.SetRating(id, req.Rating)
	JSON(w, http.StatusOK, map[string]int{"rating": req.Rating})
}

type noteRequest struct {
	Content string `json:"content"`
}

func (h *Handler) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.questionID(w, r)
	if !ok {
		return
	}
	var req noteRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SaveUserNote(id, req.Content)
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleResetPractice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.questionID(w, r)
	if !ok {
		return
	}
	h.store.ResetPracticeCount(id)
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleClearWrong(w http.ResponseWriter, r *http.Request) {
	h.store.ClearWrongQuestions()
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleClearFavorites(w http.ResponseWriter, r *http.Request) {
	h.store.ClearFavorites()
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// difficultyProgress is the completed/total breakdown for one difficulty.
type difficultyProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// statsResponse summarizes overall study progress.
type statsResponse struct {
	TotalQuestions int                                     `json:"totalQuestions"`
	Completed      int                                     `json:"completed"`
	Favorites      int                                     `json:"favorites"`
	Wrong          int                                     `json:"wrong"`
	PracticeTotal  int                                     `json:"practiceTotal"`
	ByDifficulty   map[model.Difficulty]difficultyProgress `json:"byDifficulty"`
	CheckIns       int                                     `json:"checkIns"`
	CheckedInToday bool                                    `json:"checkedInToday"`
	DailyGoal      model.DailyGoal                         `json:"dailyGoal"`
	Theme          string                                  `json:"theme"`
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	bank := h.store.QuestionBank()
	completed := h.store.CompletedQuestions()

	byDifficulty := make(map[model.Difficulty]difficultyProgress)
	for _, q := range bank {
		p := byDifficulty[q.Difficulty]
		p.Total++
		if completed[q.ID] {
			p.Completed++
		}
		byDifficulty[q.Difficulty] = p
	}

	JSON(w, http.StatusOK, statsResponse{
		TotalQuestions: len(bank),
		Completed:      len(completed),
		Favorites:      len(h.store.Favorites()),
		Wrong:          len(h.store.WrongQuestions()),
		PracticeTotal:  h.store.PracticeTotal(),
		ByDifficulty:   byDifficulty,
		CheckIns:       len(h.store.CheckInRecords()),
		CheckedInToday: h.store.HasCheckedIn(todayDate()),
		DailyGoal:      h.store.DailyGoal(),
		Theme:          h.store.Theme(),
	})
}
