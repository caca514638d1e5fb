package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleUser is a regular study user.
	UserRoleUser UserRole = "user"
	// UserRoleAdmin is an admin user who may edit the question bank.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	// DifficultyAll is only valid as a challenge filter, never on a question.
	DifficultyAll Difficulty = "All"
)

// Question is one entry of the question bank. Content is a single HTML blob
// holding both the prompt and the answer, demarcated by heading text.
type Question struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
	Difficulty   Difficulty `json:"difficulty"`
	OriginalLink string     `json:"originalLink,omitempty"`
}

// QuestionUpdate carries a partial edit of a question. Nil fields are kept;
// Tags are replaced only when non-nil.
type QuestionUpdate struct {
	Title        *string
	Content      *string
	Tags         []string
	Difficulty   *Difficulty
	OriginalLink *string
}

// QuestionSource selects the candidate pool for a challenge.
type QuestionSource string

const (
	SourceAll       QuestionSource = "all"
	SourceFavorites QuestionSource = "favorites"
	SourceWrong     QuestionSource = "wrong"
)

// OrderMode selects how challenge questions are ordered.
type OrderMode string

const (
	OrderRandom   OrderMode = "random"
	OrderSequence OrderMode = "sequence"
)

// ChallengeConfig holds the parameters of one challenge run. A zero time
// limit disables the corresponding countdown.
type ChallengeConfig struct {
	QuestionCount        int            `json:"questionCount"`
	Difficulty           Difficulty     `json:"difficulty"`
	TotalTimeLimit       int            `json:"totalTimeLimit"`
	PerQuestionTimeLimit int            `json:"perQuestionTimeLimit"`
	QuestionSource       QuestionSource `json:"questionSource"`
	OrderMode            OrderMode      `json:"orderMode"`
}

// DefaultChallengeConfig returns the config used before the user picks one.
func DefaultChallengeConfig() ChallengeConfig {
	return ChallengeConfig{
		QuestionCount:        5,
		Difficulty:           DifficultyAll,
		TotalTimeLimit:       0,
		PerQuestionTimeLimit: 0,
		QuestionSource:       SourceAll,
		OrderMode:            OrderRandom,
	}
}

// QuestionResult records one judged question of a challenge run.
type QuestionResult struct {
	QuestionID string `json:"questionId"`
	Title      string `json:"title"`
	Mastered   bool   `json:"mastered"`
}

// ChallengeResult is the final summary of a completed challenge session.
type ChallengeResult struct {
	Config       ChallengeConfig  `json:"config"`
	Questions    []QuestionResult `json:"questions"`
	CorrectCount int              `json:"correctCount"`
	TotalCount   int              `json:"totalCount"`
	TotalTime    int              `json:"totalTime"`
	TimeUp       bool             `json:"timeUp"`
	CompletedAt  time.Time        `json:"completedAt"`
}

// DailyGoal holds the user's practice goal settings.
type DailyGoal struct {
	QuestionsPerDay int  `json:"questionsPerDay"`
	ReminderEnabled bool `json:"reminderEnabled"`
}

// UserProfile holds display settings for the current user.
type UserProfile struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// CheckInRecord is one check-in, date as YYYY-MM-DD and time as HH:MM.
type CheckInRecord struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// UserLog is a free-text activity note, newest first.
type UserLog struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageBoardItem is one message board entry.
type MessageBoardItem struct {
	ID        string    `json:"id"`
	Contact   string    `json:"contact"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiscussionItem is one community discussion entry.
type DiscussionItem struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeatureStatus is the workflow state of a feature request.
type FeatureStatus string

const (
	FeatureOpen    FeatureStatus = "open"
	FeaturePlanned FeatureStatus = "planned"
	FeatureDone    FeatureStatus = "done"
)

// FeatureRequestItem is one feature request entry.
type FeatureRequestItem struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Contact   string        `json:"contact"`
	Status    FeatureStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ChangelogItem is one changelog entry.
type ChangelogItem struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PageViewStats summarizes recent page view tracking.
type PageViewStats struct {
	Total      int         `json:"total"`
	Today      int         `json:"today"`
	PathCounts []PathCount `json:"pathCounts"`
}

// PathCount is a page view count for one path.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	Lang          string // UI language for localized strings (en, zh)
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
}
