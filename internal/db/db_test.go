package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/futuredo/interview-app/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestDB: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestStateRoundTrip(t *testing.T) {
	d := newTestDB(t)

	// Nothing saved yet.
	_, found, err := d.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if found {
		t.Fatal("expected no saved state in a fresh database")
	}

	snap := model.StateSnapshot{
		QuestionBank: []model.Question{{
			ID:         "a",
			Title:      "1. q",
			Content:    "<p>x</p>",
			Difficulty: model.DifficultyEasy,
		}},
		Favorites:           []string{"a"},
		WrongQuestionCounts: map[string]int{"a": 2},
		Theme:               "dark",
		CheckInTime:         "07:45",
		DailyGoal:           model.DailyGoal{QuestionsPerDay: 15, ReminderEnabled: true},
		ChallengeConfig:     model.DefaultChallengeConfig(),
	}
	snap.Normalize()
	if err := d.SaveState(snap); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	loaded, found, err := d.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !found {
		t.Fatal("expected saved state")
	}
	if len(loaded.QuestionBank) != 1 || loaded.QuestionBank[0].ID != "a" {
		t.Errorf("bank lost: %+v", loaded.QuestionBank)
	}
	if loaded.Theme != "dark" || loaded.CheckInTime != "07:45" {
		t.Errorf("settings lost: theme=%q time=%q", loaded.Theme, loaded.CheckInTime)
	}
	if loaded.WrongQuestionCounts["a"] != 2 {
		t.Errorf("counts lost: %v", loaded.WrongQuestionCounts)
	}

	// Saving again overwrites in place.
	snap.Theme = "light"
	if err := d.SaveState(snap); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	loaded, _, _ = d.LoadState()
	if loaded.Theme != "light" {
		t.Errorf("expected overwrite, got theme %q", loaded.Theme)
	}
}

func TestImportedFileHash(t *testing.T) {
	d := newTestDB(t)

	hash, err := d.GetImportedFileHash("bank.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "" {
		t.Fatalf("expected empty hash for unknown file, got %q", hash)
	}

	if err := d.SetImportedFileHash("bank.json", "abc123"); err != nil {
		t.Fatalf("SetImportedFileHash: %v", err)
	}
	hash, err = d.GetImportedFileHash("bank.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("expected abc123, got %q", hash)
	}
}

func TestMessagesCRUD(t *testing.T) {
	d := newTestDB(t)

	m, err := d.AddMessage("me@example.com", "hello")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	items, err := d.ListMessages()
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(items) != 1 || items[0].ID != m.ID || items[0].Content != "hello" {
		t.Fatalf("unexpected list %+v", items)
	}

	if err := d.UpdateMessage(m.ID, "me@example.com", "edited"); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	items, _ = d.ListMessages()
	if items[0].Content != "edited" {
		t.Errorf("expected edited content, got %q", items[0].Content)
	}

	if err := d.DeleteMessage(m.ID); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	items, _ = d.ListMessages()
	if len(items) != 0 {
		t.Errorf("expected empty board, got %d items", len(items))
	}
}

func TestMessageListCap(t *testing.T) {
	d := newTestDB(t)

	for i := 0; i < messageListLimit+5; i++ {
		if _, err := d.AddMessage("", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	items, err := d.ListMessages()
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(items) != messageListLimit {
		t.Errorf("expected the list capped at %d, got %d", messageListLimit, len(items))
	}

	if err := d.ClearMessages(); err != nil {
		t.Fatalf("ClearMessages: %v", err)
	}
	items, _ = d.ListMessages()
	if len(items) != 0 {
		t.Errorf("expected cleared board, got %d items", len(items))
	}
}

func TestDiscussions(t *testing.T) {
	d := newTestDB(t)

	item, err := d.AddDiscussion("closures", "how do they work", "anon")
	if err != nil {
		t.Fatalf("AddDiscussion: %v", err)
	}
	items, err := d.ListDiscussions()
	if err != nil {
		t.Fatalf("ListDiscussions: %v", err)
	}
	if len(items) != 1 || items[0].Topic != "closures" {
		t.Fatalf("unexpected list %+v", items)
	}
	if err := d.DeleteDiscussion(item.ID); err != nil {
		t.Fatalf("DeleteDiscussion: %v", err)
	}
	items, _ = d.ListDiscussions()
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d", len(items))
	}
}

func TestFeatureRequestWorkflow(t *testing.T) {
	d := newTestDB(t)

	item, err := d.AddFeatureRequest("dark mode", "please", "anon")
	if err != nil {
		t.Fatalf("AddFeatureRequest: %v", err)
	}
	if item.Status != model.FeatureOpen {
		t.Fatalf("new requests start open, got %q", item.Status)
	}

	if err := d.UpdateFeatureRequestStatus(item.ID, model.FeaturePlanned); err != nil {
		t.Fatalf("UpdateFeatureRequestStatus: %v", err)
	}
	items, _ := d.ListFeatureRequests()
	if len(items) != 1 || items[0].Status != model.FeaturePlanned {
		t.Fatalf("unexpected list %+v", items)
	}

	if err := d.DeleteFeatureRequest(item.ID); err != nil {
		t.Fatalf("DeleteFeatureRequest: %v", err)
	}
	items, _ = d.ListFeatureRequests()
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d", len(items))
	}
}

func TestChangelogSeedAndUpdate(t *testing.T) {
	d := newTestDB(t)

	if err := d.SeedChangelogIfEmpty("v1", "initial"); err != nil {
		t.Fatalf("SeedChangelogIfEmpty: %v", err)
	}
	// Second seed is a no-op.
	if err := d.SeedChangelogIfEmpty("v2", "again"); err != nil {
		t.Fatalf("SeedChangelogIfEmpty: %v", err)
	}
	items, err := d.ListChangelog()
	if err != nil {
		t.Fatalf("ListChangelog: %v", err)
	}
	if len(items) != 1 || items[0].Title != "v1" {
		t.Fatalf("expected a single seeded entry, got %+v", items)
	}
	if items[0].UpdatedAt != nil {
		t.Error("fresh entries have no update stamp")
	}

	if err := d.UpdateChangelog(items[0].ID, "v1.1", "patched"); err != nil {
		t.Fatalf("UpdateChangelog: %v", err)
	}
	items, _ = d.ListChangelog()
	if items[0].Title != "v1.1" || items[0].UpdatedAt == nil {
		t.Errorf("update should overwrite and stamp updated_at: %+v", items[0])
	}

	if err := d.DeleteChangelog(items[0].ID); err != nil {
		t.Fatalf("DeleteChangelog: %v", err)
	}
	items, _ = d.ListChangelog()
	if len(items) != 0 {
		t.Errorf("expected empty changelog, got %d", len(items))
	}
}

func TestPageViews(t *testing.T) {
	d := newTestDB(t)

	// Empty paths are dropped, not stored.
	if err := d.TrackPageView(""); err != nil {
		t.Fatalf("TrackPageView: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := d.TrackPageView("/bank"); err != nil {
			t.Fatalf("TrackPageView: %v", err)
		}
	}
	if err := d.TrackPageView("/challenge"); err != nil {
		t.Fatalf("TrackPageView: %v", err)
	}

	stats, err := d.PageViewStats()
	if err != nil {
		t.Fatalf("PageViewStats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.Today != 4 {
		t.Errorf("expected today 4, got %d", stats.Today)
	}
	if len(stats.PathCounts) != 2 {
		t.Fatalf("expected 2 paths, got %+v", stats.PathCounts)
	}
	if stats.PathCounts[0].Path != "/bank" || stats.PathCounts[0].Count != 3 {
		t.Errorf("expected /bank first with 3 views, got %+v", stats.PathCounts[0])
	}
}

func TestUsersAndAuthSessions(t *testing.T) {
	d := newTestDB(t)

	count, err := d.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty users table, got %d", count)
	}

	id, err := d.CreateUser(model.User{
		Username:     "player_alpha",
		DisplayName:  "Player Alpha",
		PasswordHash: "hash",
		Role:         model.UserRoleUser,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u, err := d.GetUserByUsername("player_alpha")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u == nil || u.ID != id || u.Role != model.UserRoleUser {
		t.Fatalf("unexpected user %+v", u)
	}

	u, err = d.GetUserByUsername("nobody")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u != nil {
		t.Error("missing users resolve to nil, not an error")
	}

	token, err := d.CreateAuthSession(id)
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	sess, err := d.GetAuthSession(token)
	if err != nil {
		t.Fatalf("GetAuthSession: %v", err)
	}
	if sess == nil || sess.UserID != id {
		t.Fatalf("unexpected session %+v", sess)
	}

	if err := d.DeleteAuthSession(token); err != nil {
		t.Fatalf("DeleteAuthSession: %v", err)
	}
	sess, err = d.GetAuthSession(token)
	if err != nil {
		t.Fatalf("GetAuthSession: %v", err)
	}
	if sess != nil {
		t.Error("deleted sessions resolve to nil")
	}
}

func TestExpiredAuthSession(t *testing.T) {
	d := newTestDB(t)

	id, err := d.CreateUser(model.User{
		Username:     "u",
		DisplayName:  "U",
		PasswordHash: "hash",
		Role:         model.UserRoleUser,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if _, err := d.db.Exec(
		`INSERT INTO auth_sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		"stale-token", id, past.Add(-authSessionTTL), past,
	); err != nil {
		t.Fatalf("insert stale session: %v", err)
	}

	sess, err := d.GetAuthSession("stale-token")
	if err != nil {
		t.Fatalf("GetAuthSession: %v", err)
	}
	if sess != nil {
		t.Error("expired sessions resolve to nil")
	}

	// The expired row is cleaned up on access.
	var remaining int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM auth_sessions`).Scan(&remaining); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected stale session deleted, got %d rows", remaining)
	}
}
