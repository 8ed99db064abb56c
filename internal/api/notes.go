package api

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/upload"
	"github.com/campushub/campushub/internal/validate"
)

// NotesHandler handles notes exchange endpoints.
type NotesHandler struct {
	DB      *sql.DB
	Uploads *upload.Store
}

type ratingRequest struct {
	Rating float64 `json:"rating"`
}

// List handles GET /api/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	semester := r.URL.Query().Get("semester")

	notes, err := store.ListNotes(r.Context(), h.DB, subject, semester)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	jsonResponse(w, http.StatusOK, notes)
}

// Subjects handles GET /api/notes/subjects.
func (h *NotesHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := store.ListSubjects(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list subjects")
		return
	}
	if subjects == nil {
		subjects = []string{}
	}
	jsonResponse(w, http.StatusOK, subjects)
}

// Recent handles GET /api/notes/recent.
func (h *NotesHandler) Recent(w http.ResponseWriter, r *http.Request) {
	notes, err := store.RecentNotes(r.Context(), h.DB, parseLimit(r, 10))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list recent notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	jsonResponse(w, http.StatusOK, notes)
}

// Popular handles GET /api/notes/popular.
func (h *NotesHandler) Popular(w http.ResponseWriter, r *http.Request) {
	notes, err := store.PopularNotes(r.Context(), h.DB, parseLimit(r, 10))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list popular notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	jsonResponse(w, http.StatusOK, notes)
}

// Search handles GET /api/notes/search?q=.
func (h *NotesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, http.StatusBadRequest, "query required")
		return
	}

	notes, err := store.SearchNotes(r.Context(), h.DB, query)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	jsonResponse(w, http.StatusOK, notes)
}

// Create handles POST /api/notes: a multipart form with the note metadata and
// the attachment under "file". Note files are capped at 10 MB at submission.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxNoteFileSize)

	if err := r.ParseMultipartForm(model.MaxNoteFileSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	subject := r.FormValue("subject")
	topic := r.FormValue("topic")
	semester := r.FormValue("semester")
	description := r.FormValue("description")
	if subject == "" || topic == "" || semester == "" {
		jsonError(w, http.StatusBadRequest, "subject, topic and semester required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "note file required")
		return
	}
	defer file.Close()

	if err := validate.FileName(header.Filename); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	path, err := h.Uploads.SaveNoteFile(header.Filename, file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save note file")
		return
	}

	note, err := store.CreateNote(r.Context(), h.DB, &model.Note{
		Subject:      subject,
		Topic:        topic,
		Semester:     semester,
		UploaderName: claims.Name,
		FileName:     upload.Sanitize(header.Filename),
		FilePath:     path,
		Description:  description,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	if err := store.IncrementActivity(r.Context(), h.DB, claims.UserID, model.ActivityNoteUploaded); err != nil {
		slog.Error("failed to increment notes_uploaded", "user_id", claims.UserID, "error", err)
	}

	slog.Info("note uploaded", "id", note.ID, "subject", note.Subject, "by", note.UploaderName)
	jsonResponse(w, http.StatusCreated, note)
}

// Get handles GET /api/notes/{id}.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := store.GetNote(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		jsonError(w, http.StatusNotFound, "note not found")
		return
	}

	jsonResponse(w, http.StatusOK, note)
}

// Download handles GET /api/notes/{id}/download: serves the attachment and
// adds exactly one to the note's download counter and the downloader's
// activity.
func (h *NotesHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := store.GetNote(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		jsonError(w, http.StatusNotFound, "note not found")
		return
	}

	f, err := h.Uploads.Open(note.FilePath)
	if err != nil {
		jsonError(w, http.StatusNotFound, "note file missing")
		return
	}
	defer f.Close()

	if err := store.IncrementDownloads(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to record download")
		return
	}
	if claims := GetClaims(r.Context()); claims != nil {
		if err := store.IncrementActivity(r.Context(), h.DB, claims.UserID, model.ActivityNoteDownloaded); err != nil {
			slog.Error("failed to increment notes_downloaded", "user_id", claims.UserID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+note.FileName+`"`)
	if _, err := io.Copy(w, f); err != nil {
		slog.Error("failed to write note file response", "error", err)
	}
}

// SetRating handles POST /api/notes/{id}/rating.
func (h *NotesHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		jsonError(w, http.StatusBadRequest, "rating must be between 0 and 5")
		return
	}

	note, err := store.GetNote(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		jsonError(w, http.StatusNotFound, "note not found")
		return
	}

	if err := store.SetNoteRating(r.Context(), h.DB, id, req.Rating); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to set rating")
		return
	}

	updated, err := store.GetNote(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to load updated note")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}
