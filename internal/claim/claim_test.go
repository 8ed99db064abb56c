package claim

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/campushub/campushub/internal/db"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

func reportItem(t *testing.T, database *sql.DB) *model.Item {
	t.Helper()
	item, err := store.CreateItem(context.Background(), database, &model.Item{
		Kind:            model.KindFound,
		Name:            "Blue Bottle",
		Category:        "Bottle",
		Location:        "Library",
		Description:     "Blue steel bottle with stickers",
		ReporterName:    "Neha Sharma",
		ReporterContact: "9876543210",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return item
}

func validRequest(code string) Request {
	return Request{
		Code:         code,
		Proof:        "It has a dent near the cap and two stickers",
		ClaimerName:  "Rohan Mehta",
		ClaimerEmail: "rohan@college.edu",
		Contact:      "9123456780",
	}
}

func TestSuccessfulClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	item := reportItem(t, database)

	if err := Submit(ctx, database, item.ID, validRequest(item.VerificationCode)); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, _ := store.GetItem(ctx, database, item.ID)
	if got.Status != model.StatusClaimed {
		t.Errorf("expected status 'claimed', got %q", got.Status)
	}
	if got.ClaimerName != "Rohan Mehta" {
		t.Errorf("expected claimer name recorded, got %q", got.ClaimerName)
	}
	if got.ClaimDate == "" {
		t.Error("expected claim date to be set")
	}
}

func TestClaimTrimsCode(t *testing.T) {
	database := db.NewTestDB(t)
	item := reportItem(t, database)

	req := validRequest("  " + item.VerificationCode + "  ")
	if err := Submit(context.Background(), database, item.ID, req); err != nil {
		t.Errorf("expected trimmed code to match, got %v", err)
	}
}

func TestClaimItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	err := Submit(context.Background(), database, 999, validRequest("12345"))
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestClaimMissingFields(t *testing.T) {
	database := db.NewTestDB(t)
	item := reportItem(t, database)

	req := validRequest(item.VerificationCode)
	req.Contact = "  "
	err := Submit(context.Background(), database, item.ID, req)
	if !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}

func TestClaimWrongCode(t *testing.T) {
	database := db.NewTestDB(t)
	item := reportItem(t, database)

	wrong := "12345"
	if wrong == item.VerificationCode {
		wrong = "54321"
	}
	err := Submit(context.Background(), database, item.ID, validRequest(wrong))
	if !errors.Is(err, ErrCodeMismatch) {
		t.Errorf("expected ErrCodeMismatch, got %v", err)
	}

	got, _ := store.GetItem(context.Background(), database, item.ID)
	if got.Status != model.StatusOpen {
		t.Errorf("failed claim must leave item open, got %q", got.Status)
	}
}

func TestShortProofReportedAfterCodeCheck(t *testing.T) {
	database := db.NewTestDB(t)
	item := reportItem(t, database)

	// Correct code with a 5-character proof must fail on the proof, not the code.
	req := validRequest(item.VerificationCode)
	req.Proof = "5char"
	err := Submit(context.Background(), database, item.ID, req)
	if !errors.Is(err, ErrProofTooShort) {
		t.Errorf("expected ErrProofTooShort, got %v", err)
	}
}

func TestRepeatClaimRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	item := reportItem(t, database)

	if err := Submit(ctx, database, item.ID, validRequest(item.VerificationCode)); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	err := Submit(ctx, database, item.ID, validRequest(item.VerificationCode))
	if !errors.Is(err, ErrItemNotOpen) {
		t.Errorf("expected ErrItemNotOpen on repeat claim, got %v", err)
	}
}

func TestClaimIncrementsClaimerCounter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	item := reportItem(t, database)

	user, err := store.CreateUser(ctx, database, "Rohan Mehta", "CS-042", "rohan@college.edu", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	req := validRequest(item.VerificationCode)
	req.ClaimerID = user.ID
	if err := Submit(ctx, database, item.ID, req); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	activity, _ := store.GetActivity(ctx, database, user.ID)
	if activity.ItemsClaimed != 1 {
		t.Errorf("expected items_claimed 1, got %d", activity.ItemsClaimed)
	}
}
