package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"careermatch-backend/internal/analyses/scoring"
	"careermatch-backend/internal/analyses/suggestions"
	"careermatch-backend/internal/documents"
	"careermatch-backend/internal/extract"
	"careermatch-backend/internal/llm"
	"careermatch-backend/internal/postings"
	"careermatch-backend/internal/predictor"
	"careermatch-backend/internal/queue"
	"careermatch-backend/internal/shared/metrics"
	"careermatch-backend/internal/shared/storage/object"
	"careermatch-backend/internal/shared/telemetry"
	"careermatch-backend/internal/usage"
	jobmodel "careermatch-backend/job/model"
	resumemodel "careermatch-backend/resume/model"
	resumeparse "careermatch-backend/resume/parse"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const defaultPromptVersion = "v1"

// maxMissingSkillsInResult caps the missing skills list surfaced to clients.
const maxMissingSkillsInResult = 10

// Service contains business logic for analyses.
type Service struct {
	Repo         Repo
	Usage        *usage.Service
	DocRepo      documents.DocumentsRepo
	PostingRepo  postings.Repo
	Store        object.ObjectStore
	ResumeParser *resumeparse.Parser

	// LLM and Predictor are optional enhancers; a nil value or a failed call
	// degrades the analysis to the rule-based result instead of failing it.
	LLM       llm.Client
	Predictor *predictor.Client

	// Queue, when configured, hands processing to a worker instead of an
	// in-process goroutine.
	Queue queue.Client

	Provider        string
	Model           string
	AnalysisVersion string
}

// Create enqueues a new analysis and kicks off asynchronous completion.
func (s *Service) Create(ctx context.Context, documentID, postingID, userID, mode, promptVersion string) (Analysis, error) {
	analysis, err := s.buildAnalysis(documentID, postingID, userID, mode, promptVersion)
	if err != nil {
		return Analysis{}, err
	}
	if err := s.verifyPosting(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	if s.Usage != nil {
		ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
		if err != nil {
			return Analysis{}, err
		}
		if !ok {
			return Analysis{}, usage.ErrLimitReached
		}
	}

	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Analysis{}, err
		}
	}

	s.dispatch(ctx, analysis.ID)
	return analysis, nil
}

// StartOrReuse enqueues a new analysis or reuses an existing one for
// idempotent requests against the same document/posting pair.
func (s *Service) StartOrReuse(ctx context.Context, documentID, postingID, userID, mode, promptVersion string, allowRetry bool) (Analysis, bool, error) {
	analysis, err := s.buildAnalysis(documentID, postingID, userID, mode, promptVersion)
	if err != nil {
		return Analysis{}, false, err
	}
	if err := s.verifyPosting(ctx, analysis); err != nil {
		return Analysis{}, false, err
	}

	var allowCreate func() error
	if s.Usage != nil {
		allowCreate = func() error {
			ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
			if err != nil {
				return err
			}
			if !ok {
				return usage.ErrLimitReached
			}
			return nil
		}
	}

	createdAnalysis, created, err := s.Repo.GetOrCreateForDocument(ctx, analysis, allowRetry, allowCreate)
	if err != nil {
		return createdAnalysis, false, err
	}
	if created {
		if s.Usage != nil {
			if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
				return createdAnalysis, false, err
			}
		}
		s.dispatch(ctx, createdAnalysis.ID)
	}
	return createdAnalysis, created, nil
}

// verifyPosting rejects job match requests against postings the user
// does not own before any analysis row is written.
func (s *Service) verifyPosting(ctx context.Context, analysis Analysis) error {
	if analysis.PostingID == "" || s.PostingRepo == nil {
		return nil
	}
	_, err := s.PostingRepo.GetByID(ctx, analysis.UserID, analysis.PostingID)
	return err
}

func (s *Service) buildAnalysis(documentID, postingID, userID, mode, promptVersion string) (Analysis, error) {
	if documentID == "" || userID == "" {
		return Analysis{}, errors.New("documentID and userID are required")
	}
	if mode == "" {
		if postingID == "" {
			mode = string(ModeATS)
		} else {
			mode = string(ModeJobMatch)
		}
	}
	parsedMode, err := ParseMode(mode)
	if err != nil {
		return Analysis{}, err
	}
	if parsedMode == ModeJobMatch && postingID == "" {
		return Analysis{}, errors.New("postingID is required for job match analyses")
	}
	if promptVersion == "" {
		promptVersion = defaultPromptVersion
	}

	return Analysis{
		ID:              uuid.NewString(),
		DocumentID:      documentID,
		PostingID:       postingID,
		UserID:          userID,
		Mode:            parsedMode,
		PromptVersion:   promptVersion,
		AnalysisVersion: normalizeAnalysisVersion(s.AnalysisVersion),
		Provider:        normalizeProvider(s.Provider),
		Model:           s.Model,
		Status:          StatusQueued,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// dispatch hands the analysis to the queue when configured, falling back to
// an in-process goroutine.
func (s *Service) dispatch(ctx context.Context, analysisID string) {
	if s.Queue != nil {
		msg := queue.Message{
			AnalysisID: analysisID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Info("analysis.enqueue_failed", map[string]any{
			"analysis_id": analysisID,
			"error":       sanitizeError(err),
		})
	}
	go s.completeAsync(backgroundWithRequestID(ctx), analysisID)
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func normalizeProvider(provider string) string {
	if strings.TrimSpace(provider) == "" {
		return "openai"
	}
	return provider
}

func normalizeAnalysisVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "unknown"
	}
	return strings.TrimSpace(version)
}

func (s *Service) completeAsync(ctx context.Context, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	_ = s.ProcessAnalysis(ctx, analysisID)
}

// ProcessAnalysis runs the full pipeline for one queued analysis. Errors are
// recorded on the analysis row; the returned error is for the caller's
// logging and queue retry decisions.
func (s *Service) ProcessAnalysis(ctx context.Context, analysisID string) error {
	startedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatusResultAndError(ctx, analysisID, StatusProcessing, nil, nil, nil, nil, &startedAt, nil); err != nil {
		err = fmt.Errorf("set processing failed: %w", err)
		s.failAnalysis(ctx, analysisID, "", "", err, &startedAt)
		return err
	}

	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		err = fmt.Errorf("analysis lookup: %w", err)
		s.failAnalysis(ctx, analysisID, "", "", err, &startedAt)
		return err
	}
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"document_id":       analysis.DocumentID,
		"posting_id":        analysis.PostingID,
		"analysis_id":       analysis.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.DocRepo == nil || s.Store == nil {
		err := errors.New("missing document store dependencies")
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return err
	}
	if s.ResumeParser == nil {
		err := errors.New("missing resume parser")
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return err
	}

	resumeText, err := s.loadResumeText(ctx, analysis)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return err
	}

	parsedResume := s.ResumeParser.Parse(resumeText)
	promptHash := s.enhanceResume(ctx, analysis, resumeText, &parsedResume)

	var job *jobmodel.ParsedJob
	var jobText string
	if analysis.Mode == ModeJobMatch {
		if s.PostingRepo == nil {
			err := errors.New("missing posting repository")
			s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
			return err
		}
		posting, err := s.PostingRepo.GetByID(ctx, analysis.UserID, analysis.PostingID)
		if err != nil {
			err = fmt.Errorf("posting lookup id=%s: %w", analysis.PostingID, err)
			s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
			return err
		}
		parsedJob := posting.Parsed
		s.enhanceJob(ctx, analysis, posting.RawText, &parsedJob)
		job = &parsedJob
		jobText = posting.RawText
	}

	result := s.buildResult(ctx, analysis, resumeText, jobText, parsedResume, job)

	if err := s.Repo.UpdateParsedData(ctx, analysisID, &parsedResume, job); err != nil {
		err = fmt.Errorf("set parsed data failed: %w", err)
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return err
	}
	if err := s.Repo.UpdatePromptMetadata(ctx, analysisID, analysis.AnalysisVersion, promptHash); err != nil {
		err = fmt.Errorf("set prompt metadata failed: %w", err)
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return err
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.UpdateAnalysisResult(ctx, analysisID, result, &completedAt); err != nil {
		err = fmt.Errorf("set analysis result failed: %w", err)
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return err
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"document_id":       analysis.DocumentID,
		"posting_id":        analysis.PostingID,
		"analysis_id":       analysis.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

// loadResumeText extracts the document text if no extraction exists yet, then
// loads it from object storage.
func (s *Service) loadResumeText(ctx context.Context, analysis Analysis) (string, error) {
	doc, err := s.DocRepo.GetByID(ctx, analysis.UserID, analysis.DocumentID)
	if err != nil {
		return "", fmt.Errorf("document lookup id=%s: %w", analysis.DocumentID, err)
	}

	extractedKey := doc.ExtractedTextKey
	if extractedKey == "" {
		if _, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName); err != nil {
			return "", fmt.Errorf("document %s mime %s: %w", doc.ID, doc.MimeType, err)
		}
		extractedKey = doc.StorageKey + ".extracted.txt"
		if err := s.DocRepo.UpdateExtraction(ctx, doc.UserID, doc.ID, extractedKey, time.Now().UTC()); err != nil {
			return "", fmt.Errorf("document %s mime %s: update extraction: %w", doc.ID, doc.MimeType, err)
		}
	}

	text, err := loadText(ctx, s.Store, extractedKey)
	if err != nil {
		return "", fmt.Errorf("document %s mime %s: load extracted text: %w", doc.ID, doc.MimeType, err)
	}
	return text, nil
}

// enhanceResume merges an AI parse over the rule-based one when an LLM client
// is configured. AI failure leaves the rule-based parse untouched.
func (s *Service) enhanceResume(ctx context.Context, analysis Analysis, resumeText string, parsed *resumemodel.ParsedResume) string {
	if s.LLM == nil {
		return ""
	}
	requestID := requestIDFromContext(ctx)
	llmClient := newRetryingLLM(s.LLM, analysis.ID, requestID)

	var promptHash string
	ctxWithHash := llm.WithPromptHashCapture(ctx, &promptHash)
	input := llm.ParseInput{Text: resumeText, PromptVersion: analysis.PromptVersion}

	raw, err := llmClient.ParseResume(ctxWithHash, input)
	if err != nil {
		s.logEnhanceSkipped(ctx, analysis, "resume", err)
		return promptHash
	}

	var external resumemodel.ParsedResume
	if err := json.Unmarshal(raw, &external); err != nil {
		rawRetry, retryErr := llmClient.ParseResume(llm.WithFixJSON(ctxWithHash, string(raw)), input)
		if retryErr != nil {
			s.logEnhanceSkipped(ctx, analysis, "resume", retryErr)
			return promptHash
		}
		if err := json.Unmarshal(rawRetry, &external); err != nil {
			s.logEnhanceSkipped(ctx, analysis, "resume", fmt.Errorf("llm output invalid: %w", err))
			return promptHash
		}
	}

	*parsed = resumeparse.Merge(external, *parsed)
	return promptHash
}

// enhanceJob fills in AI-parsed job fields only when the stored parse found
// no skills at all.
func (s *Service) enhanceJob(ctx context.Context, analysis Analysis, jobText string, parsed *jobmodel.ParsedJob) {
	if s.LLM == nil || len(parsed.AllSkills()) > 0 {
		return
	}
	requestID := requestIDFromContext(ctx)
	llmClient := newRetryingLLM(s.LLM, analysis.ID, requestID)

	raw, err := llmClient.ParseJob(ctx, llm.ParseInput{Text: jobText, PromptVersion: analysis.PromptVersion})
	if err != nil {
		s.logEnhanceSkipped(ctx, analysis, "job", err)
		return
	}
	var external jobmodel.ParsedJob
	if err := json.Unmarshal(raw, &external); err != nil {
		s.logEnhanceSkipped(ctx, analysis, "job", fmt.Errorf("llm output invalid: %w", err))
		return
	}
	mergeJob(parsed, external)
}

func mergeJob(dst *jobmodel.ParsedJob, src jobmodel.ParsedJob) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Company.Name == "" {
		dst.Company.Name = src.Company.Name
	}
	if len(dst.Requirements.RequiredSkills) == 0 {
		dst.Requirements.RequiredSkills = src.Requirements.RequiredSkills
	}
	if len(dst.Requirements.PreferredSkills) == 0 {
		dst.Requirements.PreferredSkills = src.Requirements.PreferredSkills
	}
	if dst.Requirements.ExperienceLevel == "" {
		dst.Requirements.ExperienceLevel = src.Requirements.ExperienceLevel
	}
	if len(dst.Responsibilities) == 0 {
		dst.Responsibilities = src.Responsibilities
	}
	if len(dst.Qualifications) == 0 {
		dst.Qualifications = src.Qualifications
	}
}

func (s *Service) logEnhanceSkipped(ctx context.Context, analysis Analysis, kind string, err error) {
	telemetry.Info("analysis.ai_parse_skipped", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"analysis_id": analysis.ID,
		"kind":        kind,
		"error":       sanitizeError(err),
	})
}

// buildResult scores the parsed pair. For ATS-only runs the match fields stay
// zero and no fit level is assigned.
func (s *Service) buildResult(ctx context.Context, analysis Analysis, resumeText, jobText string, parsedResume resumemodel.ParsedResume, job *jobmodel.ParsedJob) *MatchResult {
	var jobSkills []string
	if job != nil {
		jobSkills = job.AllSkills()
	}

	ats := scoring.Ats(resumeText, jobSkills)
	result := &MatchResult{
		AtsScore: ats.Score,
		Ats: AtsDetail{
			KeywordDensity:  ats.Density,
			FormattingScore: ats.Formatting,
			StructureScore:  ats.Structure,
			ClarityScore:    ats.Clarity,
			Feedback:        ats.Feedback,
		},
		ScoreExplanation: buildScoreExplanation(ats),
	}

	if job == nil {
		return normalizeResult(result)
	}

	match := scoring.Match(scoring.MatchInput{
		ResumeSkills: parsedResume.Skills.All(),
		JobSkills:    jobSkills,
		ResumeText:   resumeText,
		JobText:      jobText,
	})

	result.MatchScore = match.MatchScore
	result.FitLevel = scoring.ClassifyFit(match.MatchScore)
	result.MatchingSkills = match.MatchingSkills
	result.MissingSkills = match.MissingSkills
	if len(result.MissingSkills) > maxMissingSkillsInResult {
		result.MissingSkills = result.MissingSkills[:maxMissingSkillsInResult]
	}
	result.TotalSkillsMatched = match.TotalSkillsMatched
	result.TotalSkillsMissing = match.TotalSkillsMissing
	result.SkillMatchPercentage = match.SkillMatchPercentage

	sugInput := suggestions.Input{
		MissingSkills: match.MissingSkills,
		MatchScore:    match.MatchScore,
	}
	result.Suggestions = suggestions.Suggestions(sugInput)
	result.Improvements = suggestions.Improvements(sugInput)

	result.Prediction = s.predictFit(ctx, analysis, parsedResume, job)

	return normalizeResult(result)
}

// predictFit asks the external predictor for a second opinion. A nil client
// or a failed call yields no prediction.
func (s *Service) predictFit(ctx context.Context, analysis Analysis, parsedResume resumemodel.ParsedResume, job *jobmodel.ParsedJob) *FitPrediction {
	if s.Predictor == nil || job == nil {
		return nil
	}
	resumeSummary := parsedResume.Summary
	if resumeSummary == "" {
		resumeSummary = strings.Join(parsedResume.Skills.All(), ", ")
	}
	jobSummary := job.Description
	if jobSummary == "" {
		jobSummary = strings.Join(job.AllSkills(), ", ")
	}

	prediction, err := s.Predictor.Predict(ctx, resumeSummary, jobSummary)
	if err != nil {
		telemetry.Info("analysis.prediction_skipped", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": analysis.ID,
			"error":       sanitizeError(err),
		})
		return nil
	}
	return &FitPrediction{
		FitLevel:             prediction.FitLevel,
		ConfidencePercentage: prediction.ConfidencePercentage,
	}
}

func (s *Service) failAnalysis(ctx context.Context, analysisID, userID, documentID string, err error, startedAt *time.Time) {
	code, retryable := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.UpdateStatusResultAndError(context.Background(), analysisID, StatusFailed, nil, &code, &msg, &retryable, nil, &completedAt); updateErr != nil {
		fmt.Printf("failAnalysis: update failed id=%s err=%v orig=%v\n", analysisID, updateErr, err)
	}
	metrics.IncAnalysisFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"document_id":       documentID,
		"analysis_id":       analysisID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) (string, bool) {
	if err == nil {
		return ErrorCodeInternal, false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout, true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "openai request timeout") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "schema") || strings.Contains(msg, "llm output invalid") || strings.Contains(msg, "llm output parse") {
		return ErrorCodeLLMSchemaMismatch, false
	}
	if strings.Contains(msg, "validation") && !strings.Contains(msg, "llm") {
		return ErrorCodeValidation, false
	}
	if strings.Contains(msg, "document") || strings.Contains(msg, "posting") || strings.Contains(msg, "storage") || strings.Contains(msg, "parsed data") || strings.Contains(msg, "analysis result") || strings.Contains(msg, "prompt metadata") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage, true
	}
	return ErrorCodeInternal, false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
