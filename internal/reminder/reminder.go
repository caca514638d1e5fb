// Package reminder schedules the daily check-in reminder at the user's
// configured check-in time.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/futuredo/interview-app/internal/i18n"
	"github.com/futuredo/interview-app/internal/store"
)

// Scheduler fires once a day at the check-in time. When reminders are
// enabled and today has no check-in yet, it writes a localized user log
// entry so the reminder shows up on the next page load.
type Scheduler struct {
	mu    sync.Mutex
	store *store.Store
	lang  string
	cron  *cron.Cron
	entry cron.EntryID
}

// New creates a scheduler over the given store. Call Start to arm it.
func New(st *store.Store, lang string) *Scheduler {
	return &Scheduler{
		store: st,
		lang:  lang,
		cron:  cron.New(),
	}
}

// Start arms the reminder at the store's current check-in time.
func (s *Scheduler) Start() error {
	if err := s.Reschedule(s.store.CheckInTime()); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler. Pending jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Reschedule moves the reminder to a new HH:MM time of day.
func (s *Scheduler) Reschedule(checkInTime string) error {
	spec, err := cronSpec(checkInTime)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	entry, err := s.cron.AddFunc(spec, s.remind)
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.entry = entry
	slog.Info("check-in reminder scheduled", "time", checkInTime)
	return nil
}

func (s *Scheduler) remind() {
	if !s.store.DailyGoal().ReminderEnabled {
		return
	}
	today := time.Now().Format("2006-01-02")
	if s.store.HasCheckedIn(today) {
		return
	}
	ctx := i18n.WithLocalizer(context.Background(), i18n.NewLocalizer(s.lang))
	s.store.AddUserLog(i18n.T(ctx, "CheckInReminder"))
	slog.Info("check-in reminder fired", "date", today)
}

// cronSpec converts an HH:MM time of day into a daily cron spec.
func cronSpec(checkInTime string) (string, error) {
	parts := strings.SplitN(checkInTime, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid check-in time %q", checkInTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid check-in time %q", checkInTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid check-in time %q", checkInTime)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
