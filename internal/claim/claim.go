// Package claim implements the verification-code-gated transition of an item
// from open to claimed.
//
// Preconditions are checked in a fixed order and each failure is a distinct
// sentinel error, so callers can tell "wrong code" apart from "insufficient
// proof" and "missing fields". A failed claim leaves the item untouched.
// Claimed is terminal: there is no un-claim, and a second claim on the same
// item fails with ErrItemNotOpen. Attempts are not rate limited.
package claim

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

// MinProofLength is the minimum trimmed length of the free-text ownership proof.
const MinProofLength = 10

// Precondition failures, in the order they are checked.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrItemNotOpen   = errors.New("item is no longer open")
	ErrMissingFields = errors.New("verification code, proof, name and contact are all required")
	ErrCodeMismatch  = errors.New("incorrect verification code")
	ErrProofTooShort = errors.New("verification proof must be at least 10 characters")
)

// Request carries a claim submission.
type Request struct {
	Code         string
	Proof        string
	ClaimerName  string
	ClaimerEmail string
	Contact      string
	// ClaimerID, when non-zero, identifies the registered user whose
	// items_claimed counter is incremented on success.
	ClaimerID int64
}

// Submit validates a claim against the stored item and, if every precondition
// holds, marks the item claimed and records the claim metadata.
func Submit(ctx context.Context, db *sql.DB, itemID int64, req Request) error {
	item, err := store.GetItem(ctx, db, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.Status != model.StatusOpen {
		return ErrItemNotOpen
	}

	if req.Code == "" || strings.TrimSpace(req.Proof) == "" ||
		strings.TrimSpace(req.ClaimerName) == "" || strings.TrimSpace(req.Contact) == "" {
		return ErrMissingFields
	}

	if strings.TrimSpace(req.Code) != item.VerificationCode {
		return ErrCodeMismatch
	}

	proof := strings.TrimSpace(req.Proof)
	if len(proof) < MinProofLength {
		return ErrProofTooShort
	}

	if err := store.MarkItemClaimed(ctx, db, itemID,
		strings.TrimSpace(req.ClaimerName), strings.TrimSpace(req.ClaimerEmail),
		strings.TrimSpace(req.Contact), proof); err != nil {
		return err
	}

	if req.ClaimerID != 0 {
		if err := store.IncrementActivity(ctx, db, req.ClaimerID, model.ActivityItemClaimed); err != nil {
			return err
		}
	}

	return nil
}
