package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"careermatch-backend/internal/documents"
	"careermatch-backend/internal/postings"
	"careermatch-backend/internal/queue"
	"careermatch-backend/internal/shared/server/middleware"
	"careermatch-backend/internal/shared/storage/object"
	local "careermatch-backend/internal/shared/storage/object/local"
	jobmodel "careermatch-backend/job/model"
	resumeparse "careermatch-backend/resume/parse"
)

type stubQueue struct {
	messages []queue.Message
	err      error
}

func (s *stubQueue) Send(ctx context.Context, msg queue.Message) error {
	_ = ctx
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type analysisRouterEnv struct {
	router       *gin.Engine
	docRepo      *documents.MemoryRepo
	analysisRepo *MemoryRepo
	postingRepo  *postings.MemoryRepo
	store        object.ObjectStore
	queueStub    *stubQueue
}

func setupAnalysisRouter(t *testing.T) analysisRouterEnv {
	t.Helper()
	docRepo := documents.NewMemoryRepo()
	analysisRepo := NewMemoryRepo()
	postingRepo := postings.NewMemoryRepo()
	store := local.New(t.TempDir())
	queueStub := &stubQueue{}
	svc := &Service{
		Repo:         analysisRepo,
		DocRepo:      docRepo,
		PostingRepo:  postingRepo,
		Store:        store,
		ResumeParser: resumeparse.NewParser(),
		Queue:        queueStub,
	}
	handler := NewHandler(svc, docRepo)

	router := gin.New()
	router.Use(middleware.Auth("dev"))
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return analysisRouterEnv{
		router:       router,
		docRepo:      docRepo,
		analysisRepo: analysisRepo,
		postingRepo:  postingRepo,
		store:        store,
		queueStub:    queueStub,
	}
}

func seedRouterDocument(t *testing.T, repo *documents.MemoryRepo, store object.ObjectStore, userID string) string {
	t.Helper()
	extractedKey, _, _, err := store.Save(context.Background(), userID, "resume.txt", bytes.NewReader([]byte(testResumeText)))
	if err != nil {
		t.Fatalf("save extracted text: %v", err)
	}
	doc := documents.Document{
		ID:               "doc-" + userID,
		UserID:           userID,
		FileName:         "resume.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        123,
		StorageKey:       "test-key",
		ExtractedTextKey: extractedKey,
		CreatedAt:        time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc.ID
}

func seedRouterPosting(t *testing.T, repo *postings.MemoryRepo, userID string) string {
	t.Helper()
	posting := postings.Posting{
		ID:      "posting-" + userID,
		UserID:  userID,
		Title:   "Backend Engineer",
		RawText: "Python and AWS required.",
		Parsed: jobmodel.ParsedJob{
			Title: "Backend Engineer",
			Requirements: jobmodel.Requirements{
				RequiredSkills: []string{"Python", "AWS"},
			},
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), posting); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	return posting.ID
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestStartAnalysisEnqueues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := setupAnalysisRouter(t)
	userID := "guest:test-guest"
	documentID := seedRouterDocument(t, env.docRepo, env.store, userID)
	postingID := seedRouterPosting(t, env.postingRepo, userID)

	body, err := json.Marshal(map[string]string{"postingId": postingID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		AnalysisID string `json:"analysisId"`
		Status     string `json:"status"`
		Mode       string `json:"mode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.AnalysisID == "" {
		t.Fatalf("expected analysisId, got empty")
	}
	if created.Status != StatusQueued {
		t.Fatalf("expected status queued, got %q", created.Status)
	}
	if created.Mode != string(ModeJobMatch) {
		t.Fatalf("expected mode JOB_MATCH, got %q", created.Mode)
	}

	analysis, err := env.analysisRepo.GetByID(context.Background(), created.AnalysisID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if analysis.PostingID != postingID {
		t.Fatalf("expected postingId stored, got %q", analysis.PostingID)
	}
	if analysis.PromptVersion != defaultPromptVersion {
		t.Fatalf("expected default prompt version, got %q", analysis.PromptVersion)
	}
	if len(env.queueStub.messages) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(env.queueStub.messages))
	}
}

func TestStartAnalysisWithoutPostingDefaultsToATS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := setupAnalysisRouter(t)
	userID := "guest:test-guest"
	documentID := seedRouterDocument(t, env.docRepo, env.store, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/analyze", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Mode != string(ModeATS) {
		t.Fatalf("expected mode ATS, got %q", created.Mode)
	}
}

func TestStartAnalysisReusesInFlight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := setupAnalysisRouter(t)
	userID := "guest:test-guest"
	documentID := seedRouterDocument(t, env.docRepo, env.store, userID)
	postingID := seedRouterPosting(t, env.postingRepo, userID)

	body, err := json.Marshal(map[string]string{"postingId": postingID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	env.router.ServeHTTP(first, req)
	if first.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/analyze", bytes.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	addGuestHeader(req2)
	env.router.ServeHTTP(second, req2)
	if second.Code != http.StatusOK {
		t.Fatalf("expected status 200 for reused analysis, got %d", second.Code)
	}

	var firstResp, secondResp struct {
		AnalysisID string `json:"analysisId"`
	}
	if err := json.NewDecoder(first.Body).Decode(&firstResp); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.NewDecoder(second.Body).Decode(&secondResp); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if firstResp.AnalysisID != secondResp.AnalysisID {
		t.Fatalf("expected the same analysis to be reused")
	}
	if len(env.queueStub.messages) != 1 {
		t.Fatalf("expected a single queued message, got %d", len(env.queueStub.messages))
	}
}

func TestStartAnalysisUnknownDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := setupAnalysisRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/nope/analyze", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestGetAnalysisPollLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := setupAnalysisRouter(t)
	analysis := Analysis{
		ID:         "analysis-poll",
		DocumentID: "doc-1",
		UserID:     "guest:test-guest",
		Mode:       ModeATS,
		Status:     StatusProcessing,
		CreatedAt:  time.Now().UTC(),
	}
	if err := env.analysisRepo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("create analysis: %v", err)
	}

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID, nil)
	addGuestHeader(req)
	env.router.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID, nil)
	addGuestHeader(req2)
	env.router.ServeHTTP(second, req2)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 when polling too fast, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestGetAnalysisHidesOtherUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := setupAnalysisRouter(t)
	analysis := Analysis{
		ID:         "analysis-other",
		DocumentID: "doc-1",
		UserID:     "someone-else",
		Mode:       ModeATS,
		Status:     StatusCompleted,
		Result:     &MatchResult{AtsScore: 70},
		CreatedAt:  time.Now().UTC(),
	}
	if err := env.analysisRepo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("create analysis: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID, nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for another user's analysis, got %d", resp.Code)
	}
}

func TestListAnalysesIncludesScores(t *testing.T) {
	gin.SetMode(gin.TestMode)

	analysisRepo := NewMemoryRepo()
	svc := &Service{Repo: analysisRepo}
	handler := NewHandler(svc, nil)

	analysis := Analysis{
		ID:         "analysis-list",
		DocumentID: "doc-1",
		PostingID:  "posting-1",
		UserID:     "user-1",
		Mode:       ModeJobMatch,
		Status:     StatusCompleted,
		Result: &MatchResult{
			MatchScore: 81.0,
			AtsScore:   74.0,
			FitLevel:   "Great Fit",
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := analysisRepo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("create analysis: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	c.Set("userId", "user-1")
	c.Set("isGuest", false)

	handler.listAnalyses(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var payload []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 item, got %d", len(payload))
	}
	item := payload[0]
	if item["matchScore"] != 81.0 {
		t.Fatalf("expected matchScore 81, got %v", item["matchScore"])
	}
	if item["atsScore"] != 74.0 {
		t.Fatalf("expected atsScore 74, got %v", item["atsScore"])
	}
	if item["fitLevel"] != "Great Fit" {
		t.Fatalf("expected fitLevel, got %v", item["fitLevel"])
	}
}

func TestListAnalysesRejectsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	analysisRepo := NewMemoryRepo()
	svc := &Service{Repo: analysisRepo}
	handler := NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	c.Set("userId", "guest:abc")
	c.Set("isGuest", true)

	handler.listAnalyses(c)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for guests, got %d", w.Code)
	}
}
