package analyses

import (
	"context"
	"time"

	jobmodel "careermatch-backend/job/model"
	resumemodel "careermatch-backend/resume/model"
)

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	// GetOrCreateForDocument returns the latest analysis for the document and
	// posting pair, or creates a new one when none is reusable. allowCreate,
	// when non-nil, runs before the insert and can veto it.
	GetOrCreateForDocument(ctx context.Context, analysis Analysis, allowRetry bool, allowCreate func() error) (Analysis, bool, error)
	UpdateStatusResultAndError(ctx context.Context, analysisID, status string, result *MatchResult, errorCode *string, errorMessage *string, errorRetryable *bool, startedAt *time.Time, completedAt *time.Time) error
	UpdateParsedData(ctx context.Context, analysisID string, resume *resumemodel.ParsedResume, job *jobmodel.ParsedJob) error
	UpdatePromptMetadata(ctx context.Context, analysisID, analysisVersion, promptHash string) error
	UpdateAnalysisResult(ctx context.Context, analysisID string, result *MatchResult, completedAt *time.Time) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
}
