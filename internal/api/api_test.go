package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campushub/campushub/internal/db"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/upload"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)

	uploads, err := upload.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating upload store: %v", err)
	}

	router := NewRouter(database, uploads, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func signup(t *testing.T, server *httptest.Server, name, rollNo, email string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"name":     name,
		"roll_no":  rollNo,
		"email":    email,
		"password": "password",
	})
	resp, err := http.Post(server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("signup request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.StatusCode)
	}
}

func login(t *testing.T, server *httptest.Server, loginKey string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"login": loginKey, "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}
	return token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func reportItem(t *testing.T, server *httptest.Server, token, kind, category, location string) (int64, string) {
	t.Helper()
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]string{
		"kind":             kind,
		"name":             "Steel Water Bottle",
		"category":         category,
		"location":         location,
		"description":      "Blue steel bottle with stickers",
		"reporter_name":    "Neha Sharma",
		"reporter_contact": "9876543210",
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create item request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		ID               int64  `json:"id"`
		VerificationCode string `json:"verification_code"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	if created.ID == 0 {
		t.Fatal("expected item id in response")
	}
	return created.ID, created.VerificationCode
}

func TestSignupAndLogin(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Ankit Verma", "CS-2021/001", "ankit@college.edu")

	// Login works by email and by roll number.
	login(t, server, "ankit@college.edu")
	login(t, server, "CS-2021/001")

	// Wrong password rejected.
	body, _ := json.Marshal(map[string]string{"login": "ankit@college.edu", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDuplicateSignupConflict(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Ankit Verma", "CS-001", "ankit@college.edu")

	body, _ := json.Marshal(map[string]string{
		"name":     "Someone Else",
		"roll_no":  "CS-002",
		"email":    "ankit@college.edu",
		"password": "password",
	})
	resp, _ := http.Post(server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSignupValidation(t *testing.T) {
	server := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"name":     "Ankit Verma",
		"roll_no":  "CS-001",
		"email":    "not-an-email",
		"password": "password",
	})
	resp, _ := http.Post(server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid email, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLostFoundMatchAndClaimScenario(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Neha Sharma", "CS-010", "neha@college.edu")
	token := login(t, server, "neha@college.edu")

	lostID, _ := reportItem(t, server, token, model.KindLost, "Bottle", "Library")
	_, foundCode := reportItem(t, server, token, model.KindFound, "Bottle", "Library")

	if len(foundCode) != 5 {
		t.Errorf("expected 5-digit verification code, got %q", foundCode)
	}

	// The lost item's matches must surface the found item with score 20.
	req, _ := authRequest("GET", fmt.Sprintf("%s/api/items/%d/matches", server.URL, lostID), token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var matches []model.MatchCandidate
	json.NewDecoder(resp.Body).Decode(&matches)
	resp.Body.Close()
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchScore != model.ScoreCategoryLocation {
		t.Errorf("expected score %d, got %d", model.ScoreCategoryLocation, matches[0].MatchScore)
	}
	foundID := matches[0].ID

	// Correct code but short proof: the proof failure must be reported, not
	// the code.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/items/%d/claim", server.URL, foundID), token, map[string]string{
		"verification_code": foundCode,
		"proof":             "5char",
		"claimer_name":      "Rohan Mehta",
		"claimer_email":     "rohan@college.edu",
		"claimer_contact":   "9123456780",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for short proof, got %d", resp.StatusCode)
	}
	var errResp map[string]string
	json.NewDecoder(resp.Body).Decode(&errResp)
	resp.Body.Close()
	if errResp["error"] == "" || errResp["error"] == "incorrect verification code" {
		t.Errorf("expected proof-specific error, got %q", errResp["error"])
	}

	// Wrong code rejected with 403.
	wrong := "12345"
	if wrong == foundCode {
		wrong = "54321"
	}
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/items/%d/claim", server.URL, foundID), token, map[string]string{
		"verification_code": wrong,
		"proof":             "It has a dent near the cap",
		"claimer_name":      "Rohan Mehta",
		"claimer_email":     "rohan@college.edu",
		"claimer_contact":   "9123456780",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for wrong code, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Claim with surrounding whitespace around the code succeeds.
	claimBody := map[string]string{
		"verification_code": "  " + foundCode + "  ",
		"proof":             "It has a dent near the cap and two stickers",
		"claimer_name":      "Rohan Mehta",
		"claimer_email":     "rohan@college.edu",
		"claimer_contact":   "9123456780",
	}
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/items/%d/claim", server.URL, foundID), token, claimBody)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for valid claim, got %d", resp.StatusCode)
	}
	var claimed model.Item
	json.NewDecoder(resp.Body).Decode(&claimed)
	resp.Body.Close()
	if claimed.ID != foundID {
		t.Errorf("expected claimed item %d in response body, got %+v", foundID, claimed)
	}
	if claimed.Status != model.StatusClaimed {
		t.Errorf("expected status 'claimed', got %q", claimed.Status)
	}

	// Repeat claim with the same code is rejected: the item is no longer open.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/items/%d/claim", server.URL, foundID), token, claimBody)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for repeat claim, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A claimed item no longer appears as a match.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d/matches", server.URL, lostID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&matches)
	resp.Body.Close()
	if len(matches) != 0 {
		t.Errorf("expected no matches after claim, got %d", len(matches))
	}
}

func uploadTestNote(t *testing.T, server *httptest.Server, token string) int64 {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("subject", "Data Structures")
	mw.WriteField("topic", "Trees and Graphs")
	mw.WriteField("semester", "Semester 3")
	mw.WriteField("description", "Tree and graph algorithms with examples")
	fw, _ := mw.CreateFormFile("file", "DS_Trees_Graphs.pdf")
	fw.Write([]byte("%PDF-1.4 fake note contents"))
	mw.Close()

	req, _ := http.NewRequest("POST", server.URL+"/api/notes", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload note request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var note model.Note
	json.NewDecoder(resp.Body).Decode(&note)
	if note.ID == 0 {
		t.Fatal("expected note id in response")
	}
	return note.ID
}

func TestNoteUploadAndDownloadCounter(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Priya Gupta", "CS-002", "priya@college.edu")
	token := login(t, server, "priya@college.edu")

	noteID := uploadTestNote(t, server, token)

	// Download three times; the counter must increase by exactly one per call.
	for i := 0; i < 3; i++ {
		req, _ := authRequest("GET", fmt.Sprintf("%s/api/notes/%d/download", server.URL, noteID), token, nil)
		resp, _ := http.DefaultClient.Do(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for download, got %d", resp.StatusCode)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if len(data) == 0 {
			t.Error("expected file contents in download response")
		}
	}

	req, _ := authRequest("GET", fmt.Sprintf("%s/api/notes/%d", server.URL, noteID), token, nil)
	resp, _ := http.DefaultClient.Do(req)
	var note model.Note
	json.NewDecoder(resp.Body).Decode(&note)
	resp.Body.Close()
	if note.Downloads != 3 {
		t.Errorf("expected 3 downloads, got %d", note.Downloads)
	}
}

func TestNoteRating(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Karan Singh", "CS-003", "karan@college.edu")
	token := login(t, server, "karan@college.edu")
	noteID := uploadTestNote(t, server, token)

	req, _ := authRequest("POST", fmt.Sprintf("%s/api/notes/%d/rating", server.URL, noteID), token, map[string]float64{"rating": 4.5})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var note model.Note
	json.NewDecoder(resp.Body).Decode(&note)
	resp.Body.Close()
	if note.ID != noteID {
		t.Errorf("expected note %d in response body, got %+v", noteID, note)
	}
	if note.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", note.Rating)
	}

	// Out-of-range rating rejected.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/notes/%d/rating", server.URL, noteID), token, map[string]float64{"rating": 7})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range rating, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAnalyticsEndpoints(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Neha Sharma", "CS-010", "neha@college.edu")
	token := login(t, server, "neha@college.edu")

	reportItem(t, server, token, model.KindLost, "Bottle", "Library")
	uploadTestNote(t, server, token)

	req, _ := authRequest("GET", server.URL+"/api/analytics/lostfound", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var stats map[string]any
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats["total_items"].(float64) != 1 {
		t.Errorf("expected 1 total item, got %v", stats["total_items"])
	}

	req, _ = authRequest("GET", server.URL+"/api/analytics/activity", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var ranking []map[string]any
	json.NewDecoder(resp.Body).Decode(&ranking)
	resp.Body.Close()
	if len(ranking) != 1 || ranking[0]["name"] != "Neha Sharma" {
		t.Errorf("unexpected activity ranking: %+v", ranking)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Neha Sharma", "CS-010", "neha@college.edu")
	token := login(t, server, "neha@college.edu")
	reportItem(t, server, token, model.KindLost, "Bottle", "Library")

	req, _ := authRequest("GET", server.URL+"/api/users", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var users []model.UserWithActivity
	json.NewDecoder(resp.Body).Decode(&users)
	resp.Body.Close()

	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Name != "Neha Sharma" {
		t.Errorf("unexpected user: %+v", users[0])
	}
	if users[0].Activity.ItemsReported != 1 {
		t.Errorf("expected items_reported 1, got %+v", users[0].Activity)
	}
	if users[0].PasswordHash != "" {
		t.Error("password hash must not appear in listing")
	}
}

func TestItemSearchEndpoint(t *testing.T) {
	server := setupTestServer(t)

	signup(t, server, "Neha Sharma", "CS-010", "neha@college.edu")
	token := login(t, server, "neha@college.edu")
	reportItem(t, server, token, model.KindLost, "Bottle", "Library")

	req, _ := authRequest("GET", server.URL+"/api/items/search?q=bottle", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Errorf("expected 1 search result, got %d", len(items))
	}
}
