// Package analytics computes read-only derived views over the stores. Every
// figure is recomputed per query; nothing is cached or incrementally
// maintained.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/campushub/campushub/internal/model"
)

// LostFoundStats summarizes the item registry.
type LostFoundStats struct {
	TotalItems   int64   `json:"total_items"`
	LostCount    int64   `json:"lost_count"`
	FoundCount   int64   `json:"found_count"`
	OpenCount    int64   `json:"open_count"`
	ClaimedCount int64   `json:"claimed_count"`
	ClaimRate    float64 `json:"claim_rate"`
}

// NotesStats summarizes the notes repository.
type NotesStats struct {
	TotalNotes     int64   `json:"total_notes"`
	TotalSubjects  int64   `json:"total_subjects"`
	TotalDownloads int64   `json:"total_downloads"`
	AvgDownloads   float64 `json:"avg_downloads"`
	Contributors   int64   `json:"contributors"`
}

// Bucket is a labelled count used by histogram views.
type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
	// Display is a human-readable rendering of Label, set only where one
	// exists (the daily view shows dates relatively).
	Display string `json:"display,omitempty"`
}

// SubjectStats aggregates notes per subject.
type SubjectStats struct {
	Subject        string  `json:"subject"`
	TotalNotes     int64   `json:"total_notes"`
	TotalDownloads int64   `json:"total_downloads"`
	AvgDownloads   float64 `json:"avg_downloads"`
}

// UserActivity ranks a user by overall platform activity. ItemsReported and
// NotesUploaded are derived live from the item/note rows (joined by reporter
// and uploader name); NotesDownloaded and ItemsClaimed come from the stored
// counters, since no row records who downloaded or claimed.
type UserActivity struct {
	Name            string `json:"name"`
	RollNo          string `json:"roll_no"`
	ItemsReported   int64  `json:"items_reported"`
	NotesUploaded   int64  `json:"notes_uploaded"`
	NotesDownloaded int64  `json:"notes_downloaded"`
	ItemsClaimed    int64  `json:"items_claimed"`
	TotalActivity   int64  `json:"total_activity"`
}

// GetLostFoundStats returns item counts by kind and status plus the claim rate.
func GetLostFoundStats(ctx context.Context, db *sql.DB) (*LostFoundStats, error) {
	s := &LostFoundStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(kind = ?), 0),
		        COALESCE(SUM(kind = ?), 0),
		        COALESCE(SUM(status = ?), 0),
		        COALESCE(SUM(status = ?), 0)
		 FROM items`,
		model.KindLost, model.KindFound, model.StatusOpen, model.StatusClaimed,
	).Scan(&s.TotalItems, &s.LostCount, &s.FoundCount, &s.OpenCount, &s.ClaimedCount)
	if err != nil {
		return nil, fmt.Errorf("computing lost/found stats: %w", err)
	}
	if s.TotalItems > 0 {
		s.ClaimRate = round2(float64(s.ClaimedCount) / float64(s.TotalItems) * 100)
	}
	return s, nil
}

// GetNotesStats returns aggregate figures for the notes repository.
func GetNotesStats(ctx context.Context, db *sql.DB) (*NotesStats, error) {
	s := &NotesStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(DISTINCT subject),
		        COALESCE(SUM(downloads), 0),
		        COUNT(DISTINCT uploader_name)
		 FROM notes`,
	).Scan(&s.TotalNotes, &s.TotalSubjects, &s.TotalDownloads, &s.Contributors)
	if err != nil {
		return nil, fmt.Errorf("computing notes stats: %w", err)
	}
	if s.TotalNotes > 0 {
		s.AvgDownloads = round2(float64(s.TotalDownloads) / float64(s.TotalNotes))
	}
	return s, nil
}

// GetCategoryDistribution returns item counts per category, descending.
func GetCategoryDistribution(ctx context.Context, db *sql.DB) ([]Bucket, error) {
	return histogram(ctx, db,
		`SELECT category, COUNT(*) FROM items GROUP BY category ORDER BY COUNT(*) DESC, category`)
}

// GetLocationDistribution returns item counts per location, descending.
func GetLocationDistribution(ctx context.Context, db *sql.DB) ([]Bucket, error) {
	return histogram(ctx, db,
		`SELECT location, COUNT(*) FROM items GROUP BY location ORDER BY COUNT(*) DESC, location`)
}

// GetDailyReportCounts returns the number of items reported per calendar
// date, each labeled with a relative rendering for display.
func GetDailyReportCounts(ctx context.Context, db *sql.DB) ([]Bucket, error) {
	buckets, err := histogram(ctx, db,
		`SELECT reported_date, COUNT(*) FROM items GROUP BY reported_date ORDER BY reported_date`)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range buckets {
		buckets[i].Display = RelativeDate(buckets[i].Label, now)
	}
	return buckets, nil
}

// GetSemesterDistribution returns note counts per semester.
func GetSemesterDistribution(ctx context.Context, db *sql.DB) ([]Bucket, error) {
	return histogram(ctx, db,
		`SELECT semester, COUNT(*) FROM notes GROUP BY semester ORDER BY COUNT(*) DESC, semester`)
}

// GetSubjectStats returns per-subject note and download aggregates.
func GetSubjectStats(ctx context.Context, db *sql.DB) ([]SubjectStats, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT subject, COUNT(*), COALESCE(SUM(downloads), 0)
		 FROM notes GROUP BY subject ORDER BY subject`,
	)
	if err != nil {
		return nil, fmt.Errorf("computing subject stats: %w", err)
	}
	defer rows.Close()

	var stats []SubjectStats
	for rows.Next() {
		var s SubjectStats
		if err := rows.Scan(&s.Subject, &s.TotalNotes, &s.TotalDownloads); err != nil {
			return nil, fmt.Errorf("scanning subject stats: %w", err)
		}
		if s.TotalNotes > 0 {
			s.AvgDownloads = round2(float64(s.TotalDownloads) / float64(s.TotalNotes))
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// GetTopDownloadedNotes returns the top-N notes by download count.
func GetTopDownloadedNotes(ctx context.Context, db *sql.DB, limit int) ([]model.Note, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, subject, topic, semester, uploader_name, file_name,
		        file_path, description, upload_date, downloads, rating
		 FROM notes ORDER BY downloads DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing top downloaded notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		var description sql.NullString
		if err := rows.Scan(&n.ID, &n.Subject, &n.Topic, &n.Semester, &n.UploaderName,
			&n.FileName, &n.FilePath, &description, &n.UploadDate, &n.Downloads, &n.Rating); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.Description = description.String
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetUserActivityRanking returns users ordered by total activity, highest
// first. Reported and uploaded counts are derived from live rows matched by
// name; downloaded and claimed come from the stored counters.
func GetUserActivityRanking(ctx context.Context, db *sql.DB) ([]UserActivity, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT u.name, u.roll_no,
		        (SELECT COUNT(*) FROM items i WHERE i.reporter_name = u.name),
		        (SELECT COUNT(*) FROM notes n WHERE n.uploader_name = u.name),
		        COALESCE(a.notes_downloaded, 0),
		        COALESCE(a.items_claimed, 0)
		 FROM users u
		 LEFT JOIN user_activity a ON a.user_id = u.id
		 ORDER BY u.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("computing user activity: %w", err)
	}
	defer rows.Close()

	var ranking []UserActivity
	for rows.Next() {
		var ua UserActivity
		if err := rows.Scan(&ua.Name, &ua.RollNo, &ua.ItemsReported, &ua.NotesUploaded,
			&ua.NotesDownloaded, &ua.ItemsClaimed); err != nil {
			return nil, fmt.Errorf("scanning user activity: %w", err)
		}
		ua.TotalActivity = ua.ItemsReported + ua.NotesUploaded + ua.NotesDownloaded + ua.ItemsClaimed
		ranking = append(ranking, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Highest activity first; equal totals keep user id order.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TotalActivity > ranking[j].TotalActivity
	})
	return ranking, nil
}

func histogram(ctx context.Context, db *sql.DB, query string) ([]Bucket, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("computing histogram: %w", err)
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("scanning histogram bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
