package postings_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"careermatch-backend/internal/postings"
	"careermatch-backend/internal/shared/server/middleware"
	jobparse "careermatch-backend/job/parse"
)

func setupPostingRouter(t *testing.T) (*gin.Engine, *postings.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := postings.NewMemoryRepo()
	svc := &postings.Service{Repo: repo, Parser: jobparse.NewParser()}
	handler := postings.NewHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.Auth("dev"))
	handler.RegisterRoutes(api)
	return router, repo
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestCreatePostingParsesText(t *testing.T) {
	router, _ := setupPostingRouter(t)

	body, _ := json.Marshal(map[string]string{
		"text": "Backend Engineer at Initech\nWe use Go and PostgreSQL on AWS.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created postings.Posting
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected posting id")
	}
	if created.Title != "Backend Engineer" || created.Company != "Initech" {
		t.Fatalf("head fields = %q / %q", created.Title, created.Company)
	}
	if created.UserID != "guest:test-guest" {
		t.Fatalf("user id = %q", created.UserID)
	}
	if len(created.Parsed.Requirements.RequiredSkills) == 0 {
		t.Fatalf("expected parsed skills")
	}
}

func TestCreatePostingRequiresText(t *testing.T) {
	router, _ := setupPostingRouter(t)

	body, _ := json.Marshal(map[string]string{"text": ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestCreatePostingRejectsOversizedText(t *testing.T) {
	router, _ := setupPostingRouter(t)

	big := make([]byte, 100_001)
	for i := range big {
		big[i] = 'a'
	}
	body, _ := json.Marshal(map[string]string{"text": string(big)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestGetPostingScopedToOwner(t *testing.T) {
	router, repo := setupPostingRouter(t)

	seedPosting(t, repo, "posting-1", "guest:someone-else")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/postings/posting-1", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestGetPostingReturnsParsedSnapshot(t *testing.T) {
	router, repo := setupPostingRouter(t)

	seedPosting(t, repo, "posting-1", "guest:test-guest")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/postings/posting-1", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	var got postings.Posting
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "posting-1" || got.Title != "Backend Engineer" {
		t.Fatalf("posting = %+v", got)
	}
}

func TestListPostingsNewestFirst(t *testing.T) {
	router, repo := setupPostingRouter(t)

	seedPosting(t, repo, "older", "guest:test-guest")
	seedPosting(t, repo, "newer", "guest:test-guest")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/postings?limit=10", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var got []postings.Posting
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d postings", len(got))
	}
	if got[0].ID != "newer" || got[1].ID != "older" {
		t.Fatalf("order = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestPostingsRequireIdentity(t *testing.T) {
	router, _ := setupPostingRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/postings", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.Code)
	}
}

var seedClock = int64(0)

func seedTime(tick int64) time.Time {
	return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Minute)
}

func seedPosting(t *testing.T, repo *postings.MemoryRepo, id, userID string) {
	t.Helper()
	seedClock++
	parser := jobparse.NewParser()
	raw := "Backend Engineer at Initech\nWe use Go and PostgreSQL."
	posting := postings.Posting{
		ID:        id,
		UserID:    userID,
		Title:     "Backend Engineer",
		Company:   "Initech",
		RawText:   raw,
		Parsed:    parser.Parse(raw),
		CreatedAt: seedTime(seedClock),
	}
	if err := repo.Create(context.Background(), posting); err != nil {
		t.Fatalf("seed posting: %v", err)
	}
}
