package store

import "github.com/futuredo/interview-app/internal/model"

// QuestionBank returns a copy of the full question bank, newest first.
func (s *Store) QuestionBank() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Question, len(s.bank))
	for i, q := range s.bank {
		out[i] = normalizeQuestion(q)
	}
	return out
}

// GetQuestion returns the question with the given id, if present.
func (s *Store) GetQuestion(id string) (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.bank {
		if q.ID == id {
			return normalizeQuestion(q), true
		}
	}
	return model.Question{}, false
}

// QuestionCount returns the size of the question bank.
func (s *Store) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bank)
}

// Favorites returns the favorite id set as a membership map.
func (s *Store) Favorites() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toSet(s.favorites)
}

// WrongQuestions returns the wrong-book id set as a membership map.
func (s *Store) WrongQuestions() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toSet(s.wrong)
}

// CompletedQuestions returns the completed id set as a membership map.
func (s *Store) CompletedQuestions() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toSet(s.completed)
}

// IsFavorite reports whether id is in the favorites set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.favorites, id)
}

// IsWrong reports whether id is in the wrong set.
func (s *Store) IsWrong(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.wrong, id)
}

// IsCompleted reports whether id is in the completed set.
func (s *Store) IsCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.completed, id)
}

// WrongCount returns how many times id was added to the wrong book.
func (s *Store) WrongCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrongCount[id]
}

// PracticeCount returns the practice counter for id. Absent means never
// practiced (or reset), reported as 0.
func (s *Store) PracticeCount(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.practice[id]
	return n, ok
}

// PracticeTotal returns the sum of all practice counters.
func (s *Store) PracticeTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.practice {
		total += n
	}
	return total
}

// Rating returns the star rating for id, 0 when unrated.
func (s *Store) Rating(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratings[id]
}

// UserNote returns the scratch answer for id.
func (s *Store) UserNote(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	return n, ok
}

// AdminOverride returns the replacement answer for id, if one is set.
func (s *Store) AdminOverride(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[id]
	return o, ok
}

// ChallengeConfig returns the current draft challenge config.
func (s *Store) ChallengeConfig() model.ChallengeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Profile returns the current user profile.
func (s *Store) Profile() model.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Theme returns the current theme name.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// CheckInRecords returns all check-in records in insertion order.
func (s *Store) CheckInRecords() []model.CheckInRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CheckInRecord{}, s.checkInRecords...)
}

// HasCheckedIn reports whether the given date (YYYY-MM-DD) is checked in.
func (s *Store) HasCheckedIn(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.dailyCheckins, date)
}

// CheckInTime returns the configured check-in reminder time (HH:MM).
func (s *Store) CheckInTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkInTime
}

// DailyGoal returns the daily goal settings.
func (s *Store) DailyGoal() model.DailyGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyGoal
}

// UserLogs returns all log entries, newest first.
func (s *Store) UserLogs() []model.UserLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.UserLog{}, s.userLogs...)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
