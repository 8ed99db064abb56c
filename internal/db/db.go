// Package db owns the embedded SQLite database: connection setup, the
// schema, and the versioned migration list. All access goes through
// database/sql with the pure-Go driver.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Connection pragmas the stores rely on: WAL so reads keep working while
// claims and download counters update, a busy timeout so concurrent writes
// wait instead of failing, and enforced foreign keys for the
// users/user_activity pair.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
	"PRAGMA synchronous=NORMAL",
}

// Open opens the database at path and applies the connection pragmas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return db, nil
}
