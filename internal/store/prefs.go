package store

import (
	"database/sql"
	"time"
)

// Preference keys.
const (
	PrefHideOnlineStatus = "hide_online_status"
	PrefActiveTab        = "active_tab"
)

// SetPreference stores a key/value preference.
func (db *DB) SetPreference(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now)
	return err
}

// GetPreference returns a preference value, or the fallback when unset.
func (db *DB) GetPreference(key, fallback string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
