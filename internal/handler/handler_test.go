package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/futuredo/interview-app/internal/challenge"
	"github.com/futuredo/interview-app/internal/db"
	appI18n "github.com/futuredo/interview-app/internal/i18n"
	"github.com/futuredo/interview-app/internal/model"
	"github.com/futuredo/interview-app/internal/store"
)

type testApp struct {
	router http.Handler
	store  *store.Store
	db     *db.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if err := appI18n.Init("en"); err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	for _, u := range []struct {
		username, password string
		role               model.UserRole
	}{
		{"admin", "admin-pass", model.UserRoleAdmin},
		{"player", "player-pass", model.UserRoleUser},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		if _, err := database.CreateUser(model.User{
			Username:     u.username,
			DisplayName:  u.username,
			PasswordHash: string(hash),
			Role:         u.role,
			Active:       true,
		}); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	st := store.New(database.SaveState)
	h := New(st, database, challenge.NewManager(st), nil, model.AppConfig{Lang: "en"})

	r := chi.NewRouter()
	r.Use(appI18n.Middleware("en"))
	h.Routes(r)

	return &testApp{router: r, store: st, db: database}
}

// login authenticates and returns the session cookie.
func (a *testApp) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func (a *testApp) do(t *testing.T, method, path string, payload any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/questions", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", rec.Code)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	app := newTestApp(t)
	player := app.login(t, "player", "player-pass")

	rec := app.do(t, http.MethodPost, "/api/questions", map[string]any{
		"title":      "1. q",
		"content":    "<p>x</p>",
		"difficulty": "Easy",
	}, player)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestQuestionLifecycle(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")

	rec := app.do(t, http.MethodPost, "/api/questions", map[string]any{
		"title":      "1. what is a slice",
		"content":    "<h2>题目</h2><p>q</p><hr><p>a</p>",
		"tags":       []string{"go"},
		"difficulty": "Medium",
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created questionItem
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created question: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created question has no id")
	}

	// Blank required fields reject the action.
	rec = app.do(t, http.MethodPost, "/api/questions", map[string]any{
		"title":      "",
		"content":    "<p>x</p>",
		"difficulty": "Easy",
	}, admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank title, got %d", rec.Code)
	}

	rec = app.do(t, http.MethodPut, "/api/questions/"+created.ID, map[string]any{
		"title": "1. what is a slice header",
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	var updated questionItem
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Title != "1. what is a slice header" {
		t.Errorf("unexpected title %q", updated.Title)
	}
	if updated.Difficulty != model.DifficultyMedium {
		t.Errorf("partial update must keep difficulty, got %q", updated.Difficulty)
	}

	rec = app.do(t, http.MethodPost, "/api/questions/"+created.ID+"/favorite", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("favorite: status %d", rec.Code)
	}
	if !app.store.IsFavorite(created.ID) {
		t.Error("favorite toggle not applied")
	}

	rec = app.do(t, http.MethodDelete, "/api/questions/"+created.ID, nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = app.do(t, http.MethodGet, "/api/questions/"+created.ID, nil, admin)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestChallengeFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")

	// Empty bank: starting reports the no-questions outcome.
	rec := app.do(t, http.MethodPost, "/api/challenge/start", nil, admin)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on empty bank, got %d", rec.Code)
	}

	app.store.SetQuestionBank([]model.Question{{
		ID:         "q1",
		Title:      "1. q",
		Content:    "<h2>题目</h2><p>prompt</p><hr><p>answer</p>",
		Difficulty: model.DifficultyEasy,
	}})

	rec = app.do(t, http.MethodPost, "/api/challenge/start", map[string]any{
		"questionCount":  1,
		"difficulty":     "All",
		"questionSource": "all",
		"orderMode":      "sequence",
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: status %d, body %s", rec.Code, rec.Body.String())
	}
	var state challenge.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Question == nil || state.Question.Answer != "" {
		t.Fatal("answer must be hidden before reveal")
	}

	base := "/api/challenge/" + state.SessionID

	// Judging before reveal is rejected.
	rec = app.do(t, http.MethodPost, base+"/judge", map[string]bool{"mastered": true}, admin)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 before reveal, got %d", rec.Code)
	}

	rec = app.do(t, http.MethodPost, base+"/reveal", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("reveal: status %d", rec.Code)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &state)
	if state.Question.Answer == "" {
		t.Fatal("expected a revealed answer")
	}

	rec = app.do(t, http.MethodPost, base+"/judge", map[string]bool{"mastered": true}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("judge: status %d", rec.Code)
	}

	rec = app.do(t, http.MethodGet, base+"/summary", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: status %d, body %s", rec.Code, rec.Body.String())
	}
	var summary model.ChallengeResult
	_ = json.Unmarshal(rec.Body.Bytes(), &summary)
	if summary.CorrectCount != 1 || summary.TotalCount != 1 || summary.TimeUp {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestCommunityEndpoints(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")

	rec := app.do(t, http.MethodPost, "/api/messages", map[string]string{
		"contact": "me",
		"content": "hello board",
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add message: status %d, body %s", rec.Code, rec.Body.String())
	}

	// Blank content rejects the action.
	rec = app.do(t, http.MethodPost, "/api/messages", map[string]string{"content": ""}, admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank content, got %d", rec.Code)
	}

	rec = app.do(t, http.MethodGet, "/api/messages", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("list messages: status %d", rec.Code)
	}
	var messages []model.MessageBoardItem
	_ = json.Unmarshal(rec.Body.Bytes(), &messages)
	if len(messages) != 1 || messages[0].Content != "hello board" {
		t.Errorf("unexpected messages %+v", messages)
	}

	rec = app.do(t, http.MethodPost, "/api/feature-requests", map[string]string{
		"title":   "export",
		"content": "dump my data",
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add feature request: status %d", rec.Code)
	}
	var fr model.FeatureRequestItem
	_ = json.Unmarshal(rec.Body.Bytes(), &fr)

	rec = app.do(t, http.MethodPut, "/api/feature-requests/"+fr.ID+"/status", map[string]string{
		"status": "planned",
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: status %d", rec.Code)
	}

	rec = app.do(t, http.MethodPut, "/api/feature-requests/"+fr.ID+"/status", map[string]string{
		"status": "bogus",
	}, admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(t)
	player := app.login(t, "player", "player-pass")

	app.store.SetQuestionBank([]model.Question{
		{ID: "e1", Title: "1. q", Content: "<p>x</p>", Difficulty: model.DifficultyEasy},
		{ID: "e2", Title: "2. q", Content: "<p>x</p>", Difficulty: model.DifficultyEasy},
		{ID: "h1", Title: "3. q", Content: "<p>x</p>", Difficulty: model.DifficultyHard},
	})
	app.store.CompleteQuestion("e1")
	app.store.IncrementPracticeCount("e1")
	app.store.IncrementPracticeCount("e1")
	app.store.IncrementPracticeCount("h1")

	rec := app.do(t, http.MethodGet, "/api/stats", nil, player)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status %d", rec.Code)
	}
	var stats statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalQuestions != 3 || stats.Completed != 1 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.PracticeTotal != 3 {
		t.Errorf("expected practice total 3, got %d", stats.PracticeTotal)
	}
	easy := stats.ByDifficulty[model.DifficultyEasy]
	if easy.Completed != 1 || easy.Total != 2 {
		t.Errorf("unexpected easy progress %+v", easy)
	}
	hard := stats.ByDifficulty[model.DifficultyHard]
	if hard.Completed != 0 || hard.Total != 1 {
		t.Errorf("unexpected hard progress %+v", hard)
	}
}

func TestDerivedStateRequiresKnownQuestion(t *testing.T) {
	app := newTestApp(t)
	player := app.login(t, "player", "player-pass")

	for _, tc := range []struct {
		method, path string
		payload      any
	}{
		{http.MethodPost, "/api/questions/ghost/favorite", nil},
		{http.MethodPost, "/api/questions/ghost/wrong", nil},
		{http.MethodDelete, "/api/questions/ghost/wrong", nil},
		{http.MethodPut, "/api/questions/ghost/rating", map[string]int{"rating": 3}},
		{http.MethodPut, "/api/questions/ghost/note", map[string]string{"content": "x"}},
		{http.MethodDelete, "/api/questions/ghost/practice", nil},
	} {
		rec := app.do(t, tc.method, tc.path, tc.payload, player)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404 for an unknown id, got %d", tc.method, tc.path, rec.Code)
		}
	}
	if app.store.IsFavorite("ghost") || app.store.IsWrong("ghost") || app.store.Rating("ghost") != 0 {
		t.Error("unknown ids must not mint derived state")
	}
}

func TestExplicitCheckInRecord(t *testing.T) {
	app := newTestApp(t)
	player := app.login(t, "player", "player-pass")

	rec := app.do(t, http.MethodPost, "/api/checkins", map[string]string{
		"date": "2026-08-30",
		"time": "22:15",
	}, player)
	if rec.Code != http.StatusCreated {
		t.Fatalf("explicit check-in: status %d, body %s", rec.Code, rec.Body.String())
	}
	var records []model.CheckInRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 || records[0].Date != "2026-08-30" || records[0].Time != "22:15" {
		t.Errorf("unexpected records %+v", records)
	}
	if !app.store.HasCheckedIn("2026-08-30") {
		t.Error("explicit record must mark its date as checked in")
	}

	// The same date cannot be recorded twice.
	rec = app.do(t, http.MethodPost, "/api/checkins", map[string]string{
		"date": "2026-08-30",
		"time": "23:00",
	}, player)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for a duplicate date, got %d", rec.Code)
	}

	// Malformed dates are rejected.
	rec = app.do(t, http.MethodPost, "/api/checkins", map[string]string{
		"date": "30/08/2026",
		"time": "22:15",
	}, player)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", rec.Code)
	}
}

func TestCheckInOverHTTP(t *testing.T) {
	app := newTestApp(t)
	player := app.login(t, "player", "player-pass")

	rec := app.do(t, http.MethodPost, "/api/checkins", nil, player)
	if rec.Code != http.StatusCreated {
		t.Fatalf("check-in: status %d", rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/checkins", nil, player)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on double check-in, got %d", rec.Code)
	}

	rec = app.do(t, http.MethodPut, "/api/checkins/time", map[string]string{"time": "25:99"}, player)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad time, got %d", rec.Code)
	}
}
