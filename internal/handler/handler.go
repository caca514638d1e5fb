// Package handler exposes the study application as a JSON API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/futuredo/interview-app/internal/challenge"
	"github.com/futuredo/interview-app/internal/db"
	"github.com/futuredo/interview-app/internal/model"
	"github.com/futuredo/interview-app/internal/reminder"
	"github.com/futuredo/interview-app/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	db       *db.DB
	sessions *challenge.Manager
	reminder *reminder.Scheduler
	config   model.AppConfig
	validate *validator.Validate
}

// New creates a new Handler.
func New(s *store.Store, d *db.DB, m *challenge.Manager, rem *reminder.Scheduler, cfg model.AppConfig) *Handler {
	return &Handler{
		store:    s,
		db:       d,
		sessions: m,
		reminder: rem,
		config:   cfg,
		validate: validator.New(),
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/api/logout", h.handleLogout)
		r.Get("/api/me", h.handleMe)

		r.Get("/api/questions", h.handleListQuestions)
		r.Get("/api/questions/{id}", h.handleGetQuestion)
		r.Post("/api/questions/{id}/favorite", h.handleToggleFavorite)
		r.Post("/api/questions/{id}/wrong", h.handleToggleWrong)
		r.Delete("/api/questions/{id}/wrong", h.handleRemoveFromWrong)
		r.Put("/api/questions/{id}/rating", h.handleSetRating)
		r.Put("/api/questions/{id}/note", h.handleSaveNote)
		r.Delete("/api/questions/{id}/practice", h.handleResetPractice)
		r.Delete("/api/wrong", h.handleClearWrong)
		r.Delete("/api/favorites", h.handleClearFavorites)
		r.Get("/api/stats", h.handleStats)

		r.Get("/api/challenge/config", h.handleGetChallengeConfig)
		r.Put("/api/challenge/config", h.handleSetChallengeConfig)
		r.Post("/api/challenge/start", h.handleStartChallenge)
		r.Get("/api/challenge/{sessionID}", h.handleChallengeState)
		r.Post("/api/challenge/{sessionID}/reveal", h.handleReveal)
		r.Post("/api/challenge/{sessionID}/judge", h.handleJudge)
		r.Post("/api/challenge/{sessionID}/abandon", h.handleAbandonChallenge)
		r.Get("/api/challenge/{sessionID}/summary", h.handleChallengeSummary)

		r.Get("/api/checkins", h.handleListCheckIns)
		r.Post("/api/checkins", h.handleCheckIn)
		r.Put("/api/checkins/time", h.handleSetCheckInTime)
		r.Put("/api/goal", h.handleSetDailyGoal)
		r.Get("/api/profile", h.handleGetProfile)
		r.Put("/api/profile", h.handleSetProfile)
		r.Post("/api/theme/toggle", h.handleToggleTheme)
		r.Get("/api/logs", h.handleListLogs)
		r.Post("/api/logs", h.handleAddLog)
		r.Delete("/api/logs/{id}", h.handleRemoveLog)

		r.Get("/api/messages", h.handleListMessages)
		r.Post("/api/messages", h.handleAddMessage)
		r.Put("/api/messages/{id}", h.handleUpdateMessage)
		r.Delete("/api/messages/{id}", h.handleDeleteMessage)
		r.Get("/api/discussions", h.handleListDiscussions)
		r.Post("/api/discussions", h.handleAddDiscussion)
		r.Delete("/api/discussions/{id}", h.handleDeleteDiscussion)
		r.Get("/api/feature-requests", h.handleListFeatureRequests)
		r.Post("/api/feature-requests", h.handleAddFeatureRequest)
		r.Get("/api/changelog", h.handleListChangelog)
		r.Post("/api/pageviews", h.handleTrackPageView)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(model.UserRoleAdmin))

			r.Post("/api/questions", h.handleCreateQuestion)
			r.Put("/api/questions/{id}", h.handleUpdateQuestion)
			r.Delete("/api/questions/{id}", h.handleDeleteQuestion)
			r.Put("/api/questions/{id}/answer", h.handleSetAdminAnswer)

			r.Delete("/api/messages", h.handleClearMessages)
			r.Put("/api/feature-requests/{id}/status", h.handleSetFeatureStatus)
			r.Delete("/api/feature-requests/{id}", h.handleDeleteFeatureRequest)
			r.Post("/api/changelog", h.handleAddChangelog)
			r.Put("/api/changelog/{id}", h.handleUpdateChangelog)
			r.Delete("/api/changelog/{id}", h.handleDeleteChangelog)
			r.Get("/api/pageviews", h.handlePageViewStats)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode parses the request body into dst and runs struct validation.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}
