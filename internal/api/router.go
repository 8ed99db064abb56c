package api

import (
	"database/sql"
	"net/http"

	"github.com/campushub/campushub/internal/upload"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, uploads *upload.Store, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db, Uploads: uploads}
	notesHandler := &NotesHandler{DB: db, Uploads: uploads}
	analyticsHandler := &AnalyticsHandler{DB: db}
	usersHandler := &UsersHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Users.
	mux.Handle("GET /api/users", authMW(http.HandlerFunc(usersHandler.List)))

	// Lost & found items.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/recent", authMW(http.HandlerFunc(itemsHandler.Recent)))
	mux.Handle("GET /api/items/search", authMW(http.HandlerFunc(itemsHandler.Search)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/items/{id}/matches", authMW(http.HandlerFunc(itemsHandler.Matches)))
	mux.Handle("POST /api/items/{id}/claim", authMW(http.HandlerFunc(itemsHandler.Claim)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Notes exchange.
	mux.Handle("GET /api/notes", authMW(http.HandlerFunc(notesHandler.List)))
	mux.Handle("POST /api/notes", authMW(http.HandlerFunc(notesHandler.Create)))
	mux.Handle("GET /api/notes/subjects", authMW(http.HandlerFunc(notesHandler.Subjects)))
	mux.Handle("GET /api/notes/recent", authMW(http.HandlerFunc(notesHandler.Recent)))
	mux.Handle("GET /api/notes/popular", authMW(http.HandlerFunc(notesHandler.Popular)))
	mux.Handle("GET /api/notes/search", authMW(http.HandlerFunc(notesHandler.Search)))
	mux.Handle("GET /api/notes/{id}", authMW(http.HandlerFunc(notesHandler.Get)))
	mux.Handle("GET /api/notes/{id}/download", authMW(http.HandlerFunc(notesHandler.Download)))
	mux.Handle("POST /api/notes/{id}/rating", authMW(http.HandlerFunc(notesHandler.SetRating)))

	// Analytics (read-only).
	mux.Handle("GET /api/analytics/lostfound", authMW(http.HandlerFunc(analyticsHandler.LostFound)))
	mux.Handle("GET /api/analytics/notes", authMW(http.HandlerFunc(analyticsHandler.Notes)))
	mux.Handle("GET /api/analytics/categories", authMW(http.HandlerFunc(analyticsHandler.Categories)))
	mux.Handle("GET /api/analytics/locations", authMW(http.HandlerFunc(analyticsHandler.Locations)))
	mux.Handle("GET /api/analytics/daily", authMW(http.HandlerFunc(analyticsHandler.Daily)))
	mux.Handle("GET /api/analytics/semesters", authMW(http.HandlerFunc(analyticsHandler.Semesters)))
	mux.Handle("GET /api/analytics/top-notes", authMW(http.HandlerFunc(analyticsHandler.TopNotes)))
	mux.Handle("GET /api/analytics/subjects", authMW(http.HandlerFunc(analyticsHandler.Subjects)))
	mux.Handle("GET /api/analytics/activity", authMW(http.HandlerFunc(analyticsHandler.Activity)))

	return mux
}
