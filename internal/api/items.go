package api

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campushub/campushub/internal/claim"
	"github.com/campushub/campushub/internal/imaging"
	"github.com/campushub/campushub/internal/match"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/upload"
	"github.com/campushub/campushub/internal/validate"
)

// ItemsHandler handles lost/found item endpoints.
type ItemsHandler struct {
	DB      *sql.DB
	Uploads *upload.Store
}

type createItemRequest struct {
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	ReporterName    string `json:"reporter_name"`
	ReporterContact string `json:"reporter_contact"`
}

type claimRequest struct {
	VerificationCode string `json:"verification_code"`
	Proof            string `json:"proof"`
	ClaimerName      string `json:"claimer_name"`
	ClaimerEmail     string `json:"claimer_email"`
	ClaimerContact   string `json:"claimer_contact"`
}

// createItemResponse includes the verification code exactly once: the
// reporter sees it on creation and is responsible for keeping it.
type createItemResponse struct {
	model.Item
	VerificationCode string `json:"verification_code"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	status := r.URL.Query().Get("status")
	if kind != "" && kind != model.KindLost && kind != model.KindFound {
		jsonError(w, http.StatusBadRequest, "invalid kind")
		return
	}
	if status != "" && status != model.StatusOpen && status != model.StatusClaimed {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, kind, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Recent handles GET /api/items/recent.
func (h *ItemsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 10)
	items, err := store.RecentItems(r.Context(), h.DB, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list recent items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Search handles GET /api/items/search?q=.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, http.StatusBadRequest, "query required")
		return
	}

	items, err := store.SearchItems(r.Context(), h.DB, query)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Kind != model.KindLost && req.Kind != model.KindFound {
		jsonError(w, http.StatusBadRequest, "kind must be 'lost' or 'found'")
		return
	}
	if req.Name == "" || req.Category == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "name, category and location required")
		return
	}
	if err := validate.Name(req.ReporterName); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ReporterContact == "" {
		jsonError(w, http.StatusBadRequest, "reporter contact required")
		return
	}
	if err := validate.Description(req.Description, 10, 500); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, &model.Item{
		Kind:            req.Kind,
		Name:            req.Name,
		Category:        req.Category,
		Location:        req.Location,
		Description:     req.Description,
		ReporterName:    req.ReporterName,
		ReporterContact: req.ReporterContact,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	if claims := GetClaims(r.Context()); claims != nil {
		if err := store.IncrementActivity(r.Context(), h.DB, claims.UserID, model.ActivityItemReported); err != nil {
			slog.Error("failed to increment items_reported", "user_id", claims.UserID, "error", err)
		}
	}

	slog.Info("item reported", "id", item.ID, "kind", item.Kind, "category", item.Category)
	jsonResponse(w, http.StatusCreated, createItemResponse{
		Item:             *item,
		VerificationCode: item.VerificationCode,
	})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Matches handles GET /api/items/{id}/matches. The result is advisory; scores
// come from category/location equality only.
func (h *ItemsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	candidates, err := store.ListItems(r.Context(), h.DB, model.OppositeKind(item.Kind), model.StatusOpen)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list candidates")
		return
	}

	matches := match.Find(candidates, item.Kind, item.Category, item.Location)
	if matches == nil {
		matches = []model.MatchCandidate{}
	}
	jsonResponse(w, http.StatusOK, matches)
}

// Claim handles POST /api/items/{id}/claim. Each precondition failure maps to
// a distinct status and message so the UI can tell the user what went wrong.
func (h *ItemsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creq := claim.Request{
		Code:         req.VerificationCode,
		Proof:        req.Proof,
		ClaimerName:  req.ClaimerName,
		ClaimerEmail: req.ClaimerEmail,
		Contact:      req.ClaimerContact,
	}
	if claims := GetClaims(r.Context()); claims != nil {
		creq.ClaimerID = claims.UserID
		if creq.ClaimerName == "" {
			creq.ClaimerName = claims.Name
		}
		if creq.ClaimerEmail == "" {
			creq.ClaimerEmail = claims.Email
		}
	}

	err = claim.Submit(r.Context(), h.DB, id, creq)
	switch {
	case err == nil:
	case errors.Is(err, claim.ErrItemNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, claim.ErrItemNotOpen):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, claim.ErrMissingFields), errors.Is(err, claim.ErrProofTooShort):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, claim.ErrCodeMismatch):
		jsonError(w, http.StatusForbidden, err.Error())
		return
	default:
		jsonError(w, http.StatusInternalServerError, "failed to claim item")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || item == nil {
		jsonError(w, http.StatusInternalServerError, "failed to load claimed item")
		return
	}
	slog.Info("item claimed", "id", id, "claimer", creq.ClaimerName)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := h.Uploads.SaveItemImage(header.Filename, data)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	if err := store.SetItemImagePath(r.Context(), h.DB, id, path); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to record image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded", "image_path": path})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.ImagePath == "" {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	f, err := h.Uploads.Open(item.ImagePath)
	if err != nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, f); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}

// parseLimit reads a positive 'limit' query parameter, falling back to def.
func parseLimit(r *http.Request, def int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
