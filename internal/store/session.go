package store

import (
	"database/sql"
	"time"
)

// SaveSession stores the serialized identity as the single session record,
// replacing whatever was there before. There is at most one session per
// client installation.
func (db *DB) SaveSession(identity string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO session (id, identity, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			identity = excluded.identity,
			updated_at = excluded.updated_at`,
		identity, now)
	return err
}

// LoadSession returns the serialized identity, or ok=false if no session
// is stored.
func (db *DB) LoadSession() (identity string, ok bool, err error) {
	err = db.QueryRow(`SELECT identity FROM session WHERE id = 1`).Scan(&identity)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return identity, true, nil
}

// ClearSession removes the session record. A no-op when none exists.
func (db *DB) ClearSession() error {
	_, err := db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
