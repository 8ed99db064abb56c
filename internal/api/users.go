package api

import (
	"database/sql"
	"net/http"

	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

// UsersHandler handles user listing endpoints.
type UsersHandler struct {
	DB *sql.DB
}

// List handles GET /api/users: every account with its activity counters.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.UserWithActivity{}
	}
	jsonResponse(w, http.StatusOK, users)
}
