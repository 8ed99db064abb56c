package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/campushub/campushub/internal/model"
)

const itemColumns = `id, kind, name, category, location, description,
	reporter_name, reporter_contact, reported_date, status, verification_code,
	image_path, claimer_name, claimer_email, claimer_contact, claim_proof, claim_date`

// GenerateVerificationCode draws a 5-digit code uniformly from [10000, 99999].
// Codes are assigned once at creation and never regenerated; uniqueness across
// items is not enforced.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", fmt.Errorf("generating verification code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+10000), nil
}

// CreateItem creates a new lost or found item report. The verification code
// and reported date are assigned here.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (kind, name, category, location, description,
		     reporter_name, reporter_contact, reported_date, status, verification_code, image_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Kind, item.Name, item.Category, item.Location, item.Description,
		item.ReporterName, item.ReporterContact, time.Now().Format("2006-01-02"),
		model.StatusOpen, code, nullable(item.ImagePath),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items in id order, optionally filtered by kind and/or
// status.
func ListItems(ctx context.Context, db *sql.DB, kind, status string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var conds []string
	var args []any
	if kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
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
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// RecentItems returns the most recently reported items.
func RecentItems(ctx context.Context, db *sql.DB, limit int) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY reported_date DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchItems returns items whose name, category, location or description
// contains the query, case-insensitively.
func SearchItems(ctx context.Context, db *sql.DB, query string) ([]model.Item, error) {
	pattern := "%" + query + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE name LIKE ? COLLATE NOCASE
		    OR category LIKE ? COLLATE NOCASE
		    OR location LIKE ? COLLATE NOCASE
		    OR description LIKE ? COLLATE NOCASE
		 ORDER BY id`,
		pattern, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SetItemImagePath records the stored image location for an item.
func SetItemImagePath(ctx context.Context, db *sql.DB, id int64, path string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image_path = ? WHERE id = ?`, path, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image path: %w", err)
	}
	return nil
}

// MarkItemClaimed flips an open item to claimed and records the claim
// metadata. It only applies to items still in the open state.
func MarkItemClaimed(ctx context.Context, db *sql.DB, id int64, claimerName, claimerEmail, claimerContact, proof string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, claimer_name = ?, claimer_email = ?,
		     claimer_contact = ?, claim_proof = ?, claim_date = ?
		 WHERE id = ? AND status = ?`,
		model.StatusClaimed, claimerName, claimerEmail, claimerContact, proof,
		time.Now().Format("2006-01-02"), id, model.StatusOpen,
	)
	if err != nil {
		return fmt.Errorf("claiming item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claiming item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d is not open", id)
	}
	return nil
}

// DeleteItem removes an item. Items are the only records that can be deleted.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description, imagePath, claimerName, claimerEmail, claimerContact, claimProof, claimDate sql.NullString
	err := row.Scan(
		&item.ID, &item.Kind, &item.Name, &item.Category, &item.Location, &description,
		&item.ReporterName, &item.ReporterContact, &item.ReportedDate, &item.Status,
		&item.VerificationCode, &imagePath,
		&claimerName, &claimerEmail, &claimerContact, &claimProof, &claimDate,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImagePath = imagePath.String
	item.ClaimerName = claimerName.String
	item.ClaimerEmail = claimerEmail.String
	item.ClaimerContact = claimerContact.String
	item.ClaimProof = claimProof.String
	item.ClaimDate = claimDate.String
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// nullable maps an empty string to NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
