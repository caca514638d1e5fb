package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futuredo/interview-app/internal/challenge"
	appI18n "github.com/futuredo/interview-app/internal/i18n"
	"github.com/futuredo/interview-app/internal/model"
)

func (h *Handler) handleGetChallengeConfig(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.store.ChallengeConfig())
}

type challengeConfigRequest struct {
	QuestionCount        int                  `json:"questionCount" validate:"required,min=1"`
	Difficulty           model.Difficulty     `json:"difficulty" validate:"required,oneof=Easy Medium Hard All"`
	TotalTimeLimit       int                  `json:"totalTimeLimit" validate:"min=0"`
	PerQuestionTimeLimit int                  `json:"perQuestionTimeLimit" validate:"min=0"`
	QuestionSource       model.QuestionSource `json:"questionSource" validate:"required,oneof=all favorites wrong"`
	OrderMode            model.OrderMode      `json:"orderMode" validate:"required,oneof=random sequence"`
}

func (req challengeConfigRequest) config() model.ChallengeConfig {
	return model.ChallengeConfig{
		QuestionCount:        req.QuestionCount,
		Difficulty:           req.Difficulty,
		TotalTimeLimit:       req.TotalTimeLimit,
		PerQuestionTimeLimit: req.PerQuestionTimeLimit,
		QuestionSource:       req.QuestionSource,
		OrderMode:            req.OrderMode,
	}
}

func (h *Handler) handleSetChallengeConfig(w http.ResponseWriter, r *http.Request) {
	var req challengeConfigRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid challenge config")
		return
	}
	cfg := req.config()
	h.store.SetChallengeConfig(cfg)
	JSON(w, http.StatusOK, cfg)
}

// handleStartChallenge starts a session with the posted config, or the saved
// one when the body is empty. Starting replaces the caller's active session.
func (h *Handler) handleStartChallenge(w http.ResponseWriter, r *http.Request) {
	cfg := h.store.ChallengeConfig()
	if r.ContentLength > 0 {
		var req challengeConfigRequest
		if err := h.decode(r, &req); err != nil {
			Error(w, http.StatusBadRequest, "invalid challenge config")
			return
		}
		cfg = req.config()
		h.store.SetChallengeConfig(cfg)
	}

	user := model.UserFromContext(r.Context())
	sess := h.sessions.Start(user.ID, cfg)
	if sess.NoQuestions() {
		Error(w, http.StatusUnprocessableEntity, appI18n.T(r.Context(), "NoQuestionsAvailable"))
		return
	}
	JSON(w, http.StatusCreated, sess.State())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*challenge.Session, bool) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		Error(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (h *Handler) handleChallengeState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, sess.State())
}

func (h *Handler) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.ShowAnswer(); err != nil {
		Error(w, http.StatusConflict, err.Error())
		return
	}
	JSON(w, http.StatusOK, sess.State())
}

type judgeRequest struct {
	Mastered bool `json:"mastered"`
}

func (h *Handler) handleJudge(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req judgeRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.Judge(req.Mastered); err != nil {
		Error(w, http.StatusConflict, err.Error())
		return
	}
	JSON(w, http.StatusOK, sess.State())
}

func (h *Handler) handleAbandonChallenge(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.sessions.Abandon(sess.ID())
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleChallengeSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	summary, done := sess.Summary()
	if !done {
		Error(w, http.StatusConflict, "session not completed")
		return
	}
	JSON(w, http.StatusOK, summary)
}
