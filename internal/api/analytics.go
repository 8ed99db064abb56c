package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/campushub/campushub/internal/analytics"
	"github.com/campushub/campushub/internal/model"
)

// AnalyticsHandler serves the read-only reporting endpoints. Every figure is
// recomputed from the stores on each request.
type AnalyticsHandler struct {
	DB *sql.DB
}

// LostFound handles GET /api/analytics/lostfound.
func (h *AnalyticsHandler) LostFound(w http.ResponseWriter, r *http.Request) {
	stats, err := analytics.GetLostFoundStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Notes handles GET /api/analytics/notes.
func (h *AnalyticsHandler) Notes(w http.ResponseWriter, r *http.Request) {
	stats, err := analytics.GetNotesStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Categories handles GET /api/analytics/categories.
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.histogram(w, r, analytics.GetCategoryDistribution)
}

// Locations handles GET /api/analytics/locations.
func (h *AnalyticsHandler) Locations(w http.ResponseWriter, r *http.Request) {
	h.histogram(w, r, analytics.GetLocationDistribution)
}

// Daily handles GET /api/analytics/daily.
func (h *AnalyticsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	h.histogram(w, r, analytics.GetDailyReportCounts)
}

// Semesters handles GET /api/analytics/semesters.
func (h *AnalyticsHandler) Semesters(w http.ResponseWriter, r *http.Request) {
	h.histogram(w, r, analytics.GetSemesterDistribution)
}

// TopNotes handles GET /api/analytics/top-notes.
func (h *AnalyticsHandler) TopNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := analytics.GetTopDownloadedNotes(r.Context(), h.DB, parseLimit(r, 10))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute top notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	jsonResponse(w, http.StatusOK, notes)
}

// Subjects handles GET /api/analytics/subjects.
func (h *AnalyticsHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	stats, err := analytics.GetSubjectStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute subject stats")
		return
	}
	if stats == nil {
		stats = []analytics.SubjectStats{}
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Activity handles GET /api/analytics/activity.
func (h *AnalyticsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	ranking, err := analytics.GetUserActivityRanking(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute activity ranking")
		return
	}
	if ranking == nil {
		ranking = []analytics.UserActivity{}
	}
	jsonResponse(w, http.StatusOK, ranking)
}

func (h *AnalyticsHandler) histogram(w http.ResponseWriter, r *http.Request,
	fn func(context.Context, *sql.DB) ([]analytics.Bucket, error)) {
	buckets, err := fn(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute distribution")
		return
	}
	if buckets == nil {
		buckets = []analytics.Bucket{}
	}
	jsonResponse(w, http.StatusOK, buckets)
}
