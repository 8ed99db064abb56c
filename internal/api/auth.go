package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/validate"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type signupRequest struct {
	Name     string `json:"name"`
	RollNo   string `json:"roll_no"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	// Login accepts the email address or the roll number.
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Name(req.Name); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.RollNo(req.RollNo); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Email(req.Email); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < 6 {
		jsonError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Name, req.RollNo, req.Email, string(hash))
	if errors.Is(err, store.ErrDuplicateUser) {
		jsonError(w, http.StatusConflict, "account already exists")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	slog.Info("user signed up", "user", user.Name, "roll_no", user.RollNo)
	jsonResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Login == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "login and password required")
		return
	}

	user, err := store.GetUserByEmailOrRollNo(r.Context(), h.DB, req.Login)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "login", req.Login, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Name, user.Email, user.RollNo)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", user.Name)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}
