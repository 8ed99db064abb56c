package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/campushub/campushub/internal/model"
)

// ErrDuplicateUser is returned when a signup collides with an existing email
// or roll number. Which field collided is deliberately not distinguished.
var ErrDuplicateUser = errors.New("user with this email or roll number already exists")

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver exposes no typed constraint error, so the message is
// matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser registers a new user and its activity row in one transaction, so
// a conflict leaves neither behind.
func CreateUser(ctx context.Context, db *sql.DB, name, rollNo, email, passwordHash string) (*model.User, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? OR roll_no = ?`, email, rollNo,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking for existing user: %w", err)
	}
	if exists > 0 {
		return nil, ErrDuplicateUser
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (name, roll_no, email, password_hash) VALUES (?, ?, ?, ?)`,
		name, rollNo, email, passwordHash,
	)
	if err != nil {
		// A concurrent signup can slip past the probe and hit the UNIQUE
		// constraints instead.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_activity (user_id) VALUES (?)`, id,
	); err != nil {
		return nil, fmt.Errorf("creating user activity row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing user creation: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, roll_no, email, password_hash FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.RollNo, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmailOrRollNo returns a user by either login key, or nil if absent.
func GetUserByEmailOrRollNo(ctx context.Context, db *sql.DB, key string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, roll_no, email, password_hash FROM users
		 WHERE email = ? OR roll_no = ?`, key, key,
	).Scan(&u.ID, &u.Name, &u.RollNo, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email or roll number: %w", err)
	}
	return u, nil
}

// ListUsers returns all users in id order, each with its activity counters.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.UserWithActivity, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT u.id, u.name, u.roll_no, u.email, u.password_hash,
		        COALESCE(a.items_reported, 0), COALESCE(a.notes_uploaded, 0),
		        COALESCE(a.notes_downloaded, 0), COALESCE(a.items_claimed, 0)
		 FROM users u
		 LEFT JOIN user_activity a ON a.user_id = u.id
		 ORDER BY u.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.UserWithActivity
	for rows.Next() {
		var u model.UserWithActivity
		if err := rows.Scan(&u.ID, &u.Name, &u.RollNo, &u.Email, &u.PasswordHash,
			&u.Activity.ItemsReported, &u.Activity.NotesUploaded,
			&u.Activity.NotesDownloaded, &u.Activity.ItemsClaimed); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Activity.UserID = u.ID
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetActivity returns a user's activity counters, or nil if the user has no
// activity row.
func GetActivity(ctx context.Context, db *sql.DB, userID int64) (*model.Activity, error) {
	a := &model.Activity{}
	err := db.QueryRowContext(ctx,
		`SELECT user_id, items_reported, notes_uploaded, notes_downloaded, items_claimed
		 FROM user_activity WHERE user_id = ?`, userID,
	).Scan(&a.UserID, &a.ItemsReported, &a.NotesUploaded, &a.NotesDownloaded, &a.ItemsClaimed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user activity: %w", err)
	}
	return a, nil
}

// IncrementActivity adds one to the named counter for a user. Counters are
// never decremented.
func IncrementActivity(ctx context.Context, db *sql.DB, userID int64, counter string) error {
	var column string
	switch counter {
	case model.ActivityItemReported:
		column = "items_reported"
	case model.ActivityNoteUploaded:
		column = "notes_uploaded"
	case model.ActivityNoteDownloaded:
		column = "notes_downloaded"
	case model.ActivityItemClaimed:
		column = "items_claimed"
	default:
		return fmt.Errorf("unknown activity counter: %s", counter)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE user_activity SET `+column+` = `+column+` + 1 WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("incrementing %s: %w", column, err)
	}
	return nil
}
