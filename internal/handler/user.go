package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/futuredo/interview-app/internal/model"
)

func todayDate() string {
	return time.Now().Format("2006-01-02")
}

func (h *Handler) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"records":        h.store.CheckInRecords(),
		"checkInTime":    h.store.CheckInTime(),
		"checkedInToday": h.store.HasCheckedIn(todayDate()),
	})
}

type checkInRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// handleCheckIn records a check-in. An empty body checks in for today; a
// {date,time} body records an explicit entry, e.g. backfilling a missed day.
func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > 0 {
		var req checkInRequest
		if err := h.decode(r, &req); err != nil {
			Error(w, http.StatusBadRequest, "date and time are required")
			return
		}
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		if _, err := time.Parse("15:04", req.Time); err != nil {
			Error(w, http.StatusBadRequest, "time must be HH:MM")
			return
		}
		if h.store.HasCheckedIn(req.Date) {
			Error(w, http.StatusConflict, "already checked in on "+req.Date)
			return
		}
		h.store.AddCheckInRecord(model.CheckInRecord{Date: req.Date, Time: req.Time})
		JSON(w, http.StatusCreated, h.store.CheckInRecords())
		return
	}

	if h.store.HasCheckedIn(todayDate()) {
		Error(w, http.StatusConflict, "already checked in today")
		return
	}
	h.store.CheckIn()
	JSON(w, http.StatusCreated, h.store.CheckInRecords())
}

type checkInTimeRequest struct {
	Time string `json:"time" validate:"required"`
}

func (h *Handler) handleSetCheckInTime(w http.ResponseWriter, r *http.Request) {
	var req checkInTimeRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "time is required")
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		Error(w, http.StatusBadRequest, "time must be HH:MM")
		return
	}
	h.store.SetCheckInTime(req.Time)
	if h.reminder != nil {
		if err := h.reminder.Reschedule(req.Time); err != nil {
			slog.Error("failed to reschedule reminder", "error", err)
		}
	}
	JSON(w, http.StatusOK, map[string]string{"checkInTime": req.Time})
}

type dailyGoalRequest struct {
	QuestionsPerDay int  `json:"questionsPerDay" validate:"required,min=1"`
	ReminderEnabled bool `json:"reminderEnabled"`
}

func (h *Handler) handleSetDailyGoal(w http.ResponseWriter, r *http.Request) {
	var req dailyGoalRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "questionsPerDay must be at least 1")
		return
	}
	goal := model.DailyGoal{
		QuestionsPerDay: req.QuestionsPerDay,
		ReminderEnabled: req.ReminderEnabled,
	}
	h.store.SetDailyGoal(goal)
	JSON(w, http.StatusOK, goal)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.store.Profile())
}

type profileRequest struct {
	Nickname  string `json:"nickname" validate:"required"`
	AvatarURL string `json:"avatarUrl"`
}

func (h *Handler) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "nickname is required")
		return
	}
	profile := model.UserProfile{Nickname: req.Nickname, AvatarURL: req.AvatarURL}
	h.store.SetProfile(profile)
	JSON(w, http.StatusOK, profile)
}

func (h *Handler) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"theme": h.store.ToggleTheme()})
}

func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.store.UserLogs())
}

type logRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *Handler) handleAddLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "content is required")
		return
	}
	JSON(w, http.StatusCreated, h.store.AddUserLog(req.Content))
}

func (h *Handler) handleRemoveLog(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveUserLog(chi.URLParam(r, "id"))
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
