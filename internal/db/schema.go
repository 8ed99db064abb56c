package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    roll_no       TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_activity (
    user_id          INTEGER PRIMARY KEY REFERENCES users(id),
    items_reported   INTEGER NOT NULL DEFAULT 0,
    notes_uploaded   INTEGER NOT NULL DEFAULT 0,
    notes_downloaded INTEGER NOT NULL DEFAULT 0,
    items_claimed    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS items (
    id                INTEGER PRIMARY KEY,
    kind              TEXT NOT NULL CHECK (kind IN ('lost', 'found')),
    name              TEXT NOT NULL,
    category          TEXT NOT NULL,
    location          TEXT NOT NULL,
    description       TEXT,
    reporter_name     TEXT NOT NULL,
    reporter_contact  TEXT NOT NULL,
    reported_date     TEXT NOT NULL,
    status            TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'claimed')),
    verification_code TEXT NOT NULL,
    image_path        TEXT,
    claimer_name      TEXT,
    claimer_email     TEXT,
    claimer_contact   TEXT,
    claim_proof       TEXT,
    claim_date        TEXT
);

CREATE TABLE IF NOT EXISTS notes (
    id            INTEGER PRIMARY KEY,
    subject       TEXT NOT NULL,
    topic         TEXT NOT NULL,
    semester      TEXT NOT NULL,
    uploader_name TEXT NOT NULL,
    file_name     TEXT NOT NULL,
    file_path     TEXT NOT NULL,
    description   TEXT,
    upload_date   TEXT NOT NULL,
    downloads     INTEGER NOT NULL DEFAULT 0,
    rating        REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
