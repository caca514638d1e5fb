package model

// StateKey is the storage key the persisted state snapshot lives under.
const StateKey = "unity-interview-storage"

// Defaults applied by Normalize when a snapshot field is missing.
const (
	DefaultQuestionsPerDay = 10
	DefaultCheckInTime     = "21:00"
	DefaultTheme           = "light"
)

// StateSnapshot is the serialized form of the question store. The message
// board is deliberately absent: it always lives in the community tables.
type StateSnapshot struct {
	QuestionBank         []Question        `json:"questionBank"`
	CompletedQuestions   []string          `json:"completedQuestions"`
	Favorites            []string          `json:"favorites"`
	WrongQuestions       []string          `json:"wrongQuestions"`
	WrongQuestionCounts  map[string]int    `json:"wrongQuestionCounts"`
	PracticeCounts       map[string]int    `json:"practiceCounts"`
	StarRatings          map[string]int    `json:"starRatings"`
	UserNotes            map[string]string `json:"userNotes"`
	AdminAnswerOverrides map[string]string `json:"adminAnswerOverrides"`
	DailyCheckins        []string          `json:"dailyCheckins"`
	CheckInRecords       []CheckInRecord   `json:"checkInRecords"`
	CheckInTime          string            `json:"checkInTime"`
	DailyGoal            DailyGoal         `json:"dailyGoal"`
	Theme                string            `json:"theme"`
	ChallengeConfig      ChallengeConfig   `json:"challengeConfig"`
	Profile              UserProfile       `json:"profile"`
	UserLogs             []UserLog         `json:"userLogs"`
}

// Normalize fills in documented defaults for fields a deserialized snapshot
// may be missing, so loading old or partial data always yields a usable state.
func (s *StateSnapshot) Normalize() {
	if s.QuestionBank == nil {
		s.QuestionBank = []Question{}
	}
	if s.CompletedQuestions == nil {
		s.CompletedQuestions = []string{}
	}
	if s.Favorites == nil {
		s.Favorites = []string{}
	}
	if s.WrongQuestions == nil {
		s.WrongQuestions = []string{}
	}
	if s.WrongQuestionCounts == nil {
		s.WrongQuestionCounts = map[string]int{}
	}
	if s.PracticeCounts == nil {
		s.PracticeCounts = map[string]int{}
	}
	if s.StarRatings == nil {
		s.StarRatings = map[string]int{}
	}
	if s.UserNotes == nil {
		s.UserNotes = map[string]string{}
	}
	if s.AdminAnswerOverrides == nil {
		s.AdminAnswerOverrides = map[string]string{}
	}
	if s.DailyCheckins == nil {
		s.DailyCheckins = []string{}
	}
	if s.CheckInRecords == nil {
		s.CheckInRecords = []CheckInRecord{}
	}
	if s.UserLogs == nil {
		s.UserLogs = []UserLog{}
	}
	if s.CheckInTime == "" {
		s.CheckInTime = DefaultCheckInTime
	}
	if s.DailyGoal.QuestionsPerDay == 0 {
		s.DailyGoal.QuestionsPerDay = DefaultQuestionsPerDay
	}
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if s.ChallengeConfig.QuestionCount == 0 {
		s.ChallengeConfig = DefaultChallengeConfig()
	}
}
