package challenge

import (
	"log/slog"
	"sync"
	"time"

	"github.com/futuredo/interview-app/internal/model"
	"github.com/futuredo/interview-app/internal/store"
)

// Manager owns the active sessions and drives their countdowns. One session
// is active per user: starting a new one abandons the previous, which also
// stops its ticker.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	sessions map[string]*Session
	byUser   map[int64]string
}

// NewManager creates a session manager over the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{
		store:    st,
		sessions: make(map[string]*Session),
		byUser:   make(map[int64]string),
	}
}

// Start selects questions for cfg and begins a session for the user. When
// the filtered pool is empty the returned session reports NoQuestions and is
// not registered; nothing ticks for it.
func (m *Manager) Start(userID int64, cfg model.ChallengeConfig) *Session {
	s := newSession(m.store, cfg)
	if s.NoQuestions() {
		slog.Info("challenge selection produced no questions",
			"source", cfg.QuestionSource, "difficulty", cfg.Difficulty)
		return s
	}

	m.mu.Lock()
	if prevID, ok := m.byUser[userID]; ok {
		if prev := m.sessions[prevID]; prev != nil {
			prev.Abandon()
		}
		delete(m.sessions, prevID)
	}
	m.sessions[s.id] = s
	m.byUser[userID] = s.id
	m.mu.Unlock()

	if cfg.TotalTimeLimit > 0 || cfg.PerQuestionTimeLimit > 0 {
		go m.run(s)
	}

	slog.Info("challenge session started",
		"session_id", s.id,
		"questions", len(s.questions),
		"total_limit", cfg.TotalTimeLimit,
		"per_question_limit", cfg.PerQuestionTimeLimit)
	return s
}

// Get returns a registered session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Abandon ends a session and drops it from the registry.
func (m *Manager) Abandon(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.Abandon()
	}
}

// run ticks the session once per second until it finishes or stops.
func (m *Manager) run(s *Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.Tick() {
				return
			}
		case <-s.stop:
			return
		}
	}
}
