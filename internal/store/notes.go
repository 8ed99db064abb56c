package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campushub/campushub/internal/model"
)

const noteColumns = `id, subject, topic, semester, uploader_name, file_name,
	file_path, description, upload_date, downloads, rating`

// CreateNote records a newly uploaded note. The upload date is assigned here.
func CreateNote(ctx context.Context, db *sql.DB, note *model.Note) (*model.Note, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO notes (subject, topic, semester, uploader_name, file_name, file_path, description, upload_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.Subject, note.Topic, note.Semester, note.UploaderName,
		note.FileName, note.FilePath, note.Description, time.Now().Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting note id: %w", err)
	}

	return GetNote(ctx, db, id)
}

// GetNote returns a note by ID, or nil if it does not exist.
func GetNote(ctx context.Context, db *sql.DB, id int64) (*model.Note, error) {
	row := db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting note: %w", err)
	}
	return note, nil
}

// ListNotes returns all notes in id order, optionally filtered by subject
// and/or semester.
func ListNotes(ctx context.Context, db *sql.DB, subject, semester string) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes`
	var conds []string
	var args []any
	if subject != "" {
		conds = append(conds, "subject = ?")
		args = append(args, subject)
	}
	if semester != "" {
		conds = append(conds, "semester = ?")
		args = append(args, semester)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// ListSubjects returns the distinct subjects that have notes.
func ListSubjects(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT subject FROM notes ORDER BY subject`)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// RecentNotes returns the most recently uploaded notes.
func RecentNotes(ctx context.Context, db *sql.DB, limit int) ([]model.Note, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes ORDER BY upload_date DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// PopularNotes returns notes ordered by download count, highest first.
func PopularNotes(ctx context.Context, db *sql.DB, limit int) ([]model.Note, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes ORDER BY downloads DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing popular notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// SearchNotes returns notes whose subject, topic, description or uploader
// contains the query, case-insensitively.
func SearchNotes(ctx context.Context, db *sql.DB, query string) ([]model.Note, error) {
	pattern := "%" + query + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE subject LIKE ? COLLATE NOCASE
		    OR topic LIKE ? COLLATE NOCASE
		    OR description LIKE ? COLLATE NOCASE
		    OR uploader_name LIKE ? COLLATE NOCASE
		 ORDER BY id`,
		pattern, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// IncrementDownloads adds exactly one to a note's download counter.
func IncrementDownloads(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE notes SET downloads = downloads + 1 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("incrementing downloads: %w", err)
	}
	return nil
}

// SetNoteRating updates a note's rating.
func SetNoteRating(ctx context.Context, db *sql.DB, id int64, rating float64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE notes SET rating = ? WHERE id = ?`, rating, id,
	)
	if err != nil {
		return fmt.Errorf("setting note rating: %w", err)
	}
	return nil
}

func scanNote(row rowScanner) (*model.Note, error) {
	note := &model.Note{}
	var description sql.NullString
	err := row.Scan(
		&note.ID, &note.Subject, &note.Topic, &note.Semester, &note.UploaderName,
		&note.FileName, &note.FilePath, &description, &note.UploadDate,
		&note.Downloads, &note.Rating,
	)
	if err != nil {
		return nil, err
	}
	note.Description = description.String
	return note, nil
}

func scanNotes(rows *sql.Rows) ([]model.Note, error) {
	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}
