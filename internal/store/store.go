// Package store holds the question bank and all per-user study state. It is
// the single write surface of the application: handlers and the challenge
// engine mutate state only through the methods below. Every mutation is
// atomic under the store lock and is followed by a snapshot save through the
// injected persist function.
package store

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/futuredo/interview-app/internal/model"
)

// SaveFunc persists a state snapshot. Errors are logged and otherwise
// ignored: persistence failures never surface through store operations.
type SaveFunc func(model.StateSnapshot) error

// Store is the in-memory state container backing every page of the app.
type Store struct {
	mu sync.Mutex

	bank       []model.Question
	completed  []string
	favorites  []string
	wrong      []string
	wrongCount map[string]int
	practice   map[string]int
	ratings    map[string]int
	notes      map[string]string
	overrides  map[string]string

	dailyCheckins  []string
	checkInRecords []model.CheckInRecord
	checkInTime    string
	dailyGoal      model.DailyGoal
	theme          string
	config         model.ChallengeConfig
	profile        model.UserProfile
	userLogs       []model.UserLog

	save SaveFunc
}

// New creates an empty store with documented defaults.
func New(save SaveFunc) *Store {
	var snap model.StateSnapshot
	snap.Normalize()
	return FromSnapshot(snap, save)
}

// FromSnapshot restores a store from a previously serialized snapshot.
// Missing fields take their defaults via Normalize.
func FromSnapshot(snap model.StateSnapshot, save SaveFunc) *Store {
	snap.Normalize()
	s := &Store{save: save}
	s.apply(snap)
	return s
}

func (s *Store) apply(snap model.StateSnapshot) {
	s.bank = make([]model.Question, len(snap.QuestionBank))
	for i, q := range snap.QuestionBank {
		s.bank[i] = normalizeQuestion(q)
	}
	s.completed = append([]string{}, snap.CompletedQuestions...)
	s.favorites = append([]string{}, snap.Favorites...)
	s.wrong = append([]string{}, snap.WrongQuestions...)
	s.wrongCount = copyIntMap(snap.WrongQuestionCounts)
	s.practice = copyIntMap(snap.PracticeCounts)
	s.ratings = copyIntMap(snap.StarRatings)
	s.notes = copyStringMap(snap.UserNotes)
	s.overrides = copyStringMap(snap.AdminAnswerOverrides)
	s.dailyCheckins = append([]string{}, snap.DailyCheckins...)
	s.checkInRecords = append([]model.CheckInRecord{}, snap.CheckInRecords...)
	s.checkInTime = snap.CheckInTime
	s.dailyGoal = snap.DailyGoal
	s.theme = snap.Theme
	s.config = snap.ChallengeConfig
	s.profile = snap.Profile
	s.userLogs = append([]model.UserLog{}, snap.UserLogs...)
}

// Snapshot returns a deep copy of the full store state.
func (s *Store) Snapshot() model.StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.StateSnapshot {
	bank := make([]model.Question, len(s.bank))
	for i, q := range s.bank {
		bank[i] = normalizeQuestion(q)
	}
	return model.StateSnapshot{
		QuestionBank:         bank,
		CompletedQuestions:   append([]string{}, s.completed...),
		Favorites:            append([]string{}, s.favorites...),
		WrongQuestions:       append([]string{}, s.wrong...),
		WrongQuestionCounts:  copyIntMap(s.wrongCount),
		PracticeCounts:       copyIntMap(s.practice),
		StarRatings:          copyIntMap(s.ratings),
		UserNotes:            copyStringMap(s.notes),
		AdminAnswerOverrides: copyStringMap(s.overrides),
		DailyCheckins:        append([]string{}, s.dailyCheckins...),
		CheckInRecords:       append([]model.CheckInRecord{}, s.checkInRecords...),
		CheckInTime:          s.checkInTime,
		DailyGoal:            s.dailyGoal,
		Theme:                s.theme,
		ChallengeConfig:      s.config,
		Profile:              s.profile,
		UserLogs:             append([]model.UserLog{}, s.userLogs...),
	}
}

// persistLocked saves the current state. Must be called with the lock held
// so snapshots are written in mutation order.
func (s *Store) persistLocked() {
	if s.save == nil {
		return
	}
	if err := s.save(s.snapshotLocked()); err != nil {
		slog.Error("failed to persist state snapshot", "error", err)
	}
}

func normalizeQuestion(q model.Question) model.Question {
	q.Tags = append([]string{}, q.Tags...)
	return q
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// AddQuestion inserts a question at the head of the bank. IDs are caller
// generated; tags are defensively copied.
func (s *Store) AddQuestion(q model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank = append([]model.Question{normalizeQuestion(q)}, s.bank...)
	s.persistLocked()
}

// UpdateQuestion merges the supplied fields into the matching question.
// Tags are replaced only when explicitly supplied. Unknown ids are no-ops.
func (s *Store) UpdateQuestion(id string, upd model.QuestionUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bank {
		if s.bank[i].ID != id {
			continue
		}
		if upd.Title != nil {
			s.bank[i].Title = *upd.Title
		}
		if upd.Content != nil {
			s.bank[i].Content = *upd.Content
		}
		if upd.Difficulty != nil {
			s.bank[i].Difficulty = *upd.Difficulty
		}
		if upd.OriginalLink != nil {
			s.bank[i].OriginalLink = *upd.OriginalLink
		}
		if upd.Tags != nil {
			s.bank[i].Tags = append([]string{}, upd.Tags...)
		}
		s.persistLocked()
		return
	}
}

// DeleteQuestion removes a question and, in the same atomic update, strips
// its id from every derived set and map. No dangling references remain.
func (s *Store) DeleteQuestion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.bank[:0]
	for _, q := range s.bank {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	s.bank = kept
	s.favorites = remove(s.favorites, id)
	s.wrong = remove(s.wrong, id)
	s.completed = remove(s.completed, id)
	delete(s.wrongCount, id)
	delete(s.practice, id)
	delete(s.ratings, id)
	delete(s.notes, id)
	delete(s.overrides, id)
	s.persistLocked()
}

// SetQuestionBank replaces the whole bank, e.g. on import.
func (s *Store) SetQuestionBank(questions []model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank = make([]model.Question, len(questions))
	for i, q := range questions {
		s.bank[i] = normalizeQuestion(q)
	}
	s.persistLocked()
}

// ToggleFavorite flips membership of id in the favorites set.
func (s *Store) ToggleFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contains(s.favorites, id) {
		s.favorites = remove(s.favorites, id)
	} else {
		s.favorites = append(s.favorites, id)
	}
	s.persistLocked()
}

// ToggleWrong flips membership of id in the wrong set. The wrong count only
// increments on the toggle-on transition, never on toggle-off.
func (s *Store) ToggleWrong(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contains(s.wrong, id) {
		s.wrong = remove(s.wrong, id)
	} else {
		s.wrong = append(s.wrong, id)
		s.wrongCount[id]++
	}
	s.persistLocked()
}

// MarkAsWrong adds id to the wrong set if absent and always increments the
// wrong count, so repeated misses across sessions keep counting.
func (s *Store) MarkAsWrong(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !contains(s.wrong, id) {
		s.wrong = append(s.wrong, id)
	}
	s.wrongCount[id]++
	s.persistLocked()
}

// RemoveFromWrong drops id from the wrong set. The count is kept.
func (s *Store) RemoveFromWrong(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrong = remove(s.wrong, id)
	s.persistLocked()
}

// ClearWrongQuestions resets the wrong set and its count map.
func (s *Store) ClearWrongQuestions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrong = []string{}
	s.wrongCount = map[string]int{}
	s.persistLocked()
}

// ClearFavorites resets the favorites set.
func (s *Store) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = []string{}
	s.persistLocked()
}

// CompleteQuestion adds id to the completed set, idempotently.
func (s *Store) CompleteQuestion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !contains(s.completed, id) {
		s.completed = append(s.completed, id)
	}
	s.persistLocked()
}

// IncrementPracticeCount bumps the practice counter for id.
func (s *Store) IncrementPracticeCount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.practice[id]++
	s.persistLocked()
}

// ResetPracticeCount removes the practice counter for id entirely.
// "Never practiced" and "reset" are the same state.
func (s *Store) ResetPracticeCount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.practice, id)
	s.persistLocked()
}

// SetRating overwrites the star rating for id, last write wins.
func (s *Store) SetRating(id string, rating int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[id] = rating
	s.persistLocked()
}

// SaveUserNote overwrites the scratch answer for id, last write wins.
// An empty string is an explicit clear and is stored as-is.
func (s *Store) SaveUserNote(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[id] = text
	s.persistLocked()
}

// SetAdminAnswer stores a replacement answer for id. Content that is blank
// after trimming deletes the override: "no override" and "empty override"
// collapse to the same state.
func (s *Store) SetAdminAnswer(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(content) == "" {
		delete(s.overrides, id)
	} else {
		s.overrides[id] = content
	}
	s.persistLocked()
}

// SetChallengeConfig replaces the draft challenge config.
func (s *Store) SetChallengeConfig(cfg model.ChallengeConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.persistLocked()
}

// ToggleTheme flips between light and dark.
func (s *Store) ToggleTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == "light" {
		s.theme = "dark"
	} else {
		s.theme = "light"
	}
	s.persistLocked()
	return s.theme
}

// SetProfile replaces the user profile.
func (s *Store) SetProfile(p model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.persistLocked()
}

// AddCheckInRecord appends a check-in and marks its date as checked in.
func (s *Store) AddCheckInRecord(rec model.CheckInRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkInRecords = append(s.checkInRecords, rec)
	if !contains(s.dailyCheckins, rec.Date) {
		s.dailyCheckins = append(s.dailyCheckins, rec.Date)
	}
	s.persistLocked()
}

// CheckIn records a check-in for today, idempotently.
func (s *Store) CheckIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	today := now.Format("2006-01-02")
	if !contains(s.dailyCheckins, today) {
		s.dailyCheckins = append(s.dailyCheckins, today)
		s.checkInRecords = append(s.checkInRecords, model.CheckInRecord{
			Date: today,
			Time: now.Format("15:04"),
		})
	}
	s.persistLocked()
}

// SetCheckInTime sets the default check-in reminder time (HH:MM).
func (s *Store) SetCheckInTime(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkInTime = t
	s.persistLocked()
}

// SetDailyGoal replaces the daily goal settings.
func (s *Store) SetDailyGoal(goal model.DailyGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyGoal = goal
	s.persistLocked()
}

// AddUserLog prepends a log entry and returns it.
func (s *Store) AddUserLog(content string) model.UserLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := model.UserLog{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.userLogs = append([]model.UserLog{entry}, s.userLogs...)
	s.persistLocked()
	return entry
}

// RemoveUserLog deletes a log entry by id.
func (s *Store) RemoveUserLog(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.userLogs[:0]
	for _, l := range s.userLogs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.userLogs = kept
	s.persistLocked()
}
