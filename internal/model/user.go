package model

// User represents a registered student account.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RollNo       string `json:"roll_no"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Activity tracks per-user usage counters. Counters only ever increase.
type Activity struct {
	UserID          int64 `json:"user_id"`
	ItemsReported   int64 `json:"items_reported"`
	NotesUploaded   int64 `json:"notes_uploaded"`
	NotesDownloaded int64 `json:"notes_downloaded"`
	ItemsClaimed    int64 `json:"items_claimed"`
}

// UserWithActivity pairs a user with its usage counters for listings.
type UserWithActivity struct {
	User
	Activity Activity `json:"activity"`
}

// Activity counter names accepted by store.IncrementActivity.
const (
	ActivityItemReported   = "items_reported"
	ActivityNoteUploaded   = "notes_uploaded"
	ActivityNoteDownloaded = "notes_downloaded"
	ActivityItemClaimed    = "items_claimed"
)
