package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/futuredo/interview-app/internal/model"
)

type createQuestionRequest struct {
	Title        string           `json:"title" validate:"required"`
	Content      string           `json:"content" validate:"required"`
	Tags         []string         `json:"tags"`
	Difficulty   model.Difficulty `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	OriginalLink string           `json:"originalLink"`
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "title, content and a valid difficulty are required")
		return
	}
	q := model.Question{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		Difficulty:   req.Difficulty,
		OriginalLink: req.OriginalLink,
	}
	h.store.AddQuestion(q)
	JSON(w, http.StatusCreated, h.questionItem(q))
}

type updateQuestionRequest struct {
	Title        *string           `json:"title"`
	Content      *string           `json:"content"`
	Tags         []string          `json:"tags"`
	Difficulty   *model.Difficulty `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	OriginalLink *string           `json:"originalLink"`
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.GetQuestion(id); !ok {
		Error(w, http.StatusNotFound, "question not found")
		return
	}
	var req updateQuestionRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.UpdateQuestion(id, model.QuestionUpdate{
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		Difficulty:   req.Difficulty,
		OriginalLink: req.OriginalLink,
	})
	q, _ := h.store.GetQuestion(id)
	JSON(w, http.StatusOK, h.questionItem(q))
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteQuestion(chi.URLParam(r, "id"))
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type adminAnswerRequest struct {
	Content string `json:"content"`
}

// handleSetAdminAnswer stores a curated answer override. A blank body
// removes the override so the extracted answer shows again.
func (h *Handler) handleSetAdminAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.GetQuestion(id); !ok {
		Error(w, http.StatusNotFound, "question not found")
		return
	}
	var req adminAnswerRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SetAdminAnswer(id, req.Content)
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
