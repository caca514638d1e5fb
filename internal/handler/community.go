package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futuredo/interview-app/internal/model"
)

// Community storage is best effort. Read failures degrade to empty lists and
// write failures report ok=false, in both cases after logging; the study
// features never depend on this data.

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListMessages()
	if err != nil {
		slog.Error("failed to list messages", "error", err)
		items = []model.MessageBoardItem{}
	}
	JSON(w, http.StatusOK, items)
}

type messageRequest struct {
	Contact string `json:"contact"`
	Content string `json:"content" validate:"required"`
}

func (h *Handler) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "content is required")
		return
	}
	item, err := h.db.AddMessage(req.Contact, req.Content)
	if err != nil {
		slog.Error("failed to add message", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if err := h.db.UpdateMessage(chi.URLParam(r, "id"), req.Contact, req.Content); err != nil {
		slog.Error("failed to update message", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteMessage(chi.URLParam(r, "id")); err != nil {
		slog.Error("failed to delete message", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ClearMessages(); err != nil {
		slog.Error("failed to clear messages", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleListDiscussions(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListDiscussions()
	if err != nil {
		slog.Error("failed to list discussions", "error", err)
		items = []model.DiscussionItem{}
	}
	JSON(w, http.StatusOK, items)
}

type discussionRequest struct {
	Topic   string `json:"topic" validate:"required"`
	Content string `json:"content" validate:"required"`
	Contact string `json:"contact"`
}

func (h *Handler) handleAddDiscussion(w http.ResponseWriter, r *http.Request) {
	var req discussionRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "topic and content are required")
		return
	}
	item, err := h.db.AddDiscussion(req.Topic, req.Content, req.Contact)
	if err != nil {
		slog.Error("failed to add discussion", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleDeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteDiscussion(chi.URLParam(r, "id")); err != nil {
		slog.Error("failed to delete discussion", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleListFeatureRequests(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListFeatureRequests()
	if err != nil {
		slog.Error("failed to list feature requests", "error", err)
		items = []model.FeatureRequestItem{}
	}
	JSON(w, http.StatusOK, items)
}

type featureRequestRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Contact string `json:"contact"`
}

func (h *Handler) handleAddFeatureRequest(w http.ResponseWriter, r *http.Request) {
	var req featureRequestRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "title and content are required")
		return
	}
	item, err := h.db.AddFeatureRequest(req.Title, req.Content, req.Contact)
	if err != nil {
		slog.Error("failed to add feature request", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusCreated, item)
}

type featureStatusRequest struct {
	Status model.FeatureStatus `json:"status" validate:"required,oneof=open planned done"`
}

func (h *Handler) handleSetFeatureStatus(w http.ResponseWriter, r *http.Request) {
	var req featureStatusRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "status must be open, planned or done")
		return
	}
	if err := h.db.UpdateFeatureRequestStatus(chi.URLParam(r, "id"), req.Status); err != nil {
		slog.Error("failed to update feature request", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleDeleteFeatureRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteFeatureRequest(chi.URLParam(r, "id")); err != nil {
		slog.Error("failed to delete feature request", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleListChangelog(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListChangelog()
	if err != nil {
		slog.Error("failed to list changelog", "error", err)
		items = []model.ChangelogItem{}
	}
	JSON(w, http.StatusOK, items)
}

type changelogRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *Handler) handleAddChangelog(w http.ResponseWriter, r *http.Request) {
	var req changelogRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "title and content are required")
		return
	}
	item, err := h.db.AddChangelog(req.Title, req.Content)
	if err != nil {
		slog.Error("failed to add changelog entry", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdateChangelog(w http.ResponseWriter, r *http.Request) {
	var req changelogRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if err := h.db.UpdateChangelog(chi.URLParam(r, "id"), req.Title, req.Content); err != nil {
		slog.Error("failed to update changelog entry", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleDeleteChangelog(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteChangelog(chi.URLParam(r, "id")); err != nil {
		slog.Error("failed to delete changelog entry", "error", err)
		JSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type pageViewRequest struct {
	Path string `json:"path" validate:"required"`
}

func (h *Handler) handleTrackPageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "path is required")
		return
	}
	if err := h.db.TrackPageView(req.Path); err != nil {
		slog.Error("failed to track page view", "error", err)
	}
	JSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

func (h *Handler) handlePageViewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.PageViewStats()
	if err != nil {
		slog.Error("failed to compute page view stats", "error", err)
		stats = model.PageViewStats{PathCounts: []model.PathCount{}}
	}
	JSON(w, http.StatusOK, stats)
}
