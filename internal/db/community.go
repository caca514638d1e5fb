package db

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/futuredo/interview-app/internal/model"
)

// Read caps, matching what the board pages ever display.
const (
	messageListLimit    = 60
	featureListLimit    = 80
	discussionListLimit = 100
	pageViewWindow      = 500
	pageViewTopPaths    = 8
)

// AddMessage inserts a message board entry and returns it.
func (d *DB) AddMessage(contact, content string) (model.MessageBoardItem, error) {
	m := model.MessageBoardItem{
		ID:        uuid.NewString(),
		Contact:   contact,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := d.db.Exec(
		`INSERT INTO messages (id, contact, content, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Contact, m.Content, m.CreatedAt,
	)
	return m, err
}

// ListMessages returns the newest messages, capped.
func (d *DB) ListMessages() ([]model.MessageBoardItem, error) {
	rows, err := d.db.Query(
		`SELECT id, contact, content, created_at FROM messages
		 ORDER BY created_at DESC LIMIT ?`, messageListLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.MessageBoardItem
	for rows.Next() {
		var m model.MessageBoardItem
		if err := rows.Scan(&m.ID, &m.Contact, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// UpdateMessage overwrites a message's contact and content.
func (d *DB) UpdateMessage(id, contact, content string) error {
	_, err := d.db.Exec(
		`UPDATE messages SET contact = ?, content = ? WHERE id = ?`,
		contact, content, id,
	)
	return err
}

// DeleteMessage removes a message by id.
func (d *DB) DeleteMessage(id string) error {
	_, err := d.db.Exec(`DELETE FROM messages WHERE id = ?`, id)
	return err
}

// ClearMessages wipes the message board.
func (d *DB) ClearMessages() error {
	_, err := d.db.Exec(`DELETE FROM messages`)
	return err
}

// AddDiscussion inserts a discussion entry and returns it.
func (d *DB) AddDiscussion(topic, content, contact string) (model.DiscussionItem, error) {
	item := model.DiscussionItem{
		ID:        uuid.NewString(),
		Topic:     topic,
		Content:   content,
		Contact:   contact,
		CreatedAt: time.Now(),
	}
	_, err := d.db.Exec(
		`INSERT INTO discussions (id, topic, content, contact, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Topic, item.Content, item.Contact, item.CreatedAt,
	)
	return item, err
}

// ListDiscussions returns the newest discussions, capped.
func (d *DB) ListDiscussions() ([]model.DiscussionItem, error) {
	rows, err := d.db.Query(
		`SELECT id, topic, content, contact, created_at FROM discussions
		 ORDER BY created_at DESC LIMIT ?`, discussionListLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.DiscussionItem
	for rows.Next() {
		var it model.DiscussionItem
		if err := rows.Scan(&it.ID, &it.Topic, &it.Content, &it.Contact, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DeleteDiscussion removes a discussion by id.
func (d *DB) DeleteDiscussion(id string) error {
	_, err := d.db.Exec(`DELETE FROM discussions WHERE id = ?`, id)
	return err
}

// AddFeatureRequest inserts a feature request in the open state.
func (d *DB) AddFeatureRequest(title, content, contact string) (model.FeatureRequestItem, error) {
	item := model.FeatureRequestItem{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Contact:   contact,
		Status:    model.FeatureOpen,
		CreatedAt: time.Now(),
	}
	_, err := d.db.Exec(
		`INSERT INTO feature_requests (id, title, content, contact, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Content, item.Contact, item.Status, item.CreatedAt,
	)
	return item, err
}

// ListFeatureRequests returns the newest feature requests, capped.
func (d *DB) ListFeatureRequests() ([]model.FeatureRequestItem, error) {
	rows, err := d.db.Query(
		`SELECT id, title, content, contact, status, created_at FROM feature_requests
		 ORDER BY created_at DESC LIMIT ?`, featureListLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.FeatureRequestItem
	for rows.Next() {
		var it model.FeatureRequestItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Content, &it.Contact, &it.Status, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateFeatureRequestStatus moves a feature request through its workflow.
func (d *DB) UpdateFeatureRequestStatus(id string, status model.FeatureStatus) error {
	_, err := d.db.Exec(`UPDATE feature_requests SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteFeatureRequest removes a feature request by id.
func (d *DB) DeleteFeatureRequest(id string) error {
	_, err := d.db.Exec(`DELETE FROM feature_requests WHERE id = ?`, id)
	return err
}

// AddChangelog inserts a changelog entry and returns it.
func (d *DB) AddChangelog(title, content string) (model.ChangelogItem, error) {
	item := model.ChangelogItem{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := d.db.Exec(
		`INSERT INTO changelog (id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		item.ID, item.Title, item.Content, item.CreatedAt,
	)
	return item, err
}

// ListChangelog returns all changelog entries, newest first.
func (d *DB) ListChangelog() ([]model.ChangelogItem, error) {
	rows, err := d.db.Query(
		`SELECT id, title, content, created_at, updated_at FROM changelog
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.ChangelogItem
	for rows.Next() {
		var it model.ChangelogItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Content, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateChangelog overwrites a changelog entry and stamps updated_at.
func (d *DB) UpdateChangelog(id, title, content string) error {
	now := time.Now()
	_, err := d.db.Exec(
		`UPDATE changelog SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, now, id,
	)
	return err
}

// DeleteChangelog removes a changelog entry by id.
func (d *DB) DeleteChangelog(id string) error {
	_, err := d.db.Exec(`DELETE FROM changelog WHERE id = ?`, id)
	return err
}

// SeedChangelogIfEmpty writes the initial changelog entry on first run.
func (d *DB) SeedChangelogIfEmpty(title, content string) error {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM changelog`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := d.AddChangelog(title, content)
	return err
}

// TrackPageView records one page view.
func (d *DB) TrackPageView(path string) error {
	if path == "" {
		return nil
	}
	_, err := d.db.Exec(
		`INSERT INTO pageviews (path, created_at) VALUES (?, ?)`,
		path, time.Now(),
	)
	return err
}

// PageViewStats summarizes the most recent page views: overall total within
// the window, today's count, and the most viewed paths.
func (d *DB) PageViewStats() (model.PageViewStats, error) {
	rows, err := d.db.Query(
		`SELECT path, created_at FROM pageviews ORDER BY created_at DESC LIMIT ?`,
		pageViewWindow,
	)
	if err != nil {
		return model.PageViewStats{}, err
	}
	defer rows.Close()

	now := time.Now()
	counts := map[string]int{}
	stats := model.PageViewStats{}
	for rows.Next() {
		var path string
		var createdAt time.Time
		if err := rows.Scan(&path, &createdAt); err != nil {
			return model.PageViewStats{}, err
		}
		stats.Total++
		if sameDay(createdAt, now) {
			stats.Today++
		}
		if path == "" {
			path = "/"
		}
		counts[path]++
	}
	if err := rows.Err(); err != nil {
		return model.PageViewStats{}, err
	}

	for path, count := range counts {
		stats.PathCounts = append(stats.PathCounts, model.PathCount{Path: path, Count: count})
	}
	sort.Slice(stats.PathCounts, func(i, j int) bool {
		if stats.PathCounts[i].Count != stats.PathCounts[j].Count {
			return stats.PathCounts[i].Count > stats.PathCounts[j].Count
		}
		return stats.PathCounts[i].Path < stats.PathCounts[j].Path
	})
	if len(stats.PathCounts) > pageViewTopPaths {
		stats.PathCounts = stats.PathCounts[:pageViewTopPaths]
	}
	return stats, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
