package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/futuredo/interview-app/internal/model"
)

// SetValue upserts a key-value pair in the app_state table.
func (d *DB) SetValue(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetValue returns the value for a key.
// Returns empty string and nil error if the key is missing.
func (d *DB) GetValue(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SaveState serializes the snapshot under the app storage key. Called after
// every store mutation, so writes land in mutation order.
func (d *DB) SaveState(snap model.StateSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return d.SetValue(model.StateKey, string(data))
}

// LoadState deserializes the persisted snapshot. The second return is false
// when no snapshot has ever been saved.
func (d *DB) LoadState() (model.StateSnapshot, bool, error) {
	var snap model.StateSnapshot
	raw, err := d.GetValue(model.StateKey)
	if err != nil {
		return snap, false, err
	}
	if raw == "" {
		return snap, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return snap, false, fmt.Errorf("unmarshal state: %w", err)
	}
	snap.Normalize()
	return snap, true, nil
}

// GetImportedFileHash returns the recorded content hash for an imported
// questions file, or empty string if the file was never imported.
func (d *DB) GetImportedFileHash(path string) (string, error) {
	return d.GetValue("import:" + path)
}

// SetImportedFileHash records the content hash of an imported questions file.
func (d *DB) SetImportedFileHash(path, hash string) error {
	return d.SetValue("import:"+path, hash)
}
