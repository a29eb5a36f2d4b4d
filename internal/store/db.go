package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const busyTimeoutMs = 5000

// DB is chatik's local database. It holds the only state the client
// persists between runs: the saved session identity and a handful of
// preferences. All messaging data lives server-side, so one writer
// connection is enough.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the database at path.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on", path, busyTimeoutMs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s: %w", path, err)
	}
	return &DB{db}, nil
}
