package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. The list is versioned via PRAGMA user_version so each statement
// runs exactly once per database; existing rows are always preserved.
// Append new migrations at the end.
var migrations = []string{
	// Migration 1: items_claimed counter added to user_activity for the
	// claim flow.
	`ALTER TABLE user_activity ADD COLUMN items_claimed INTEGER NOT NULL DEFAULT 0`,
}

// Migrate creates the schema if needed and applies pending migrations.
// A freshly created database already contains every migration's end state,
// so it is stamped with the latest version instead of replaying the list.
func Migrate(db *sql.DB) error {
	var tables int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'`,
	).Scan(&tables)
	if err != nil {
		return fmt.Errorf("probing schema: %w", err)
	}
	fresh := tables == 0

	if err := EnsureSchema(db); err != nil {
		return err
	}

	if fresh {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
	}

	return nil
}
