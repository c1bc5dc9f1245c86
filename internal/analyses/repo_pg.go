package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	jobmodel "careermatch-backend/job/model"
	resumemodel "careermatch-backend/resume/model"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `
id, document_id, posting_id, user_id, mode, status, result, parsed_resume, parsed_job,
prompt_version, analysis_version, prompt_hash, provider, model,
error_code, error_message, error_retryable, started_at, completed_at, created_at, updated_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	return insertAnalysis(ctx, r.DB, analysis)
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// GetOrCreateForDocument returns the latest analysis for the document and
// posting pair or creates a new one.
func (r *PGRepo) GetOrCreateForDocument(ctx context.Context, analysis Analysis, allowRetry bool, allowCreate func() error) (Analysis, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Analysis{}, false, err
	}
	defer tx.Rollback()

	// Serialize per-document to avoid duplicate analysis creation.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM documents WHERE id = $1 AND user_id = $2 FOR UPDATE`, analysis.DocumentID, analysis.UserID); err != nil {
		return Analysis{}, false, err
	}

	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE document_id = $1 AND user_id = $2 AND COALESCE(posting_id, '') = $3 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	latest, err := scanAnalysis(tx.QueryRowContext(ctx, query, analysis.DocumentID, analysis.UserID, analysis.PostingID))
	if err == nil {
		switch latest.Status {
		case StatusQueued, StatusProcessing, StatusCompleted:
			if err := tx.Commit(); err != nil {
				return Analysis{}, false, err
			}
			return latest, false, nil
		case StatusFailed:
			if !allowRetry {
				if err := tx.Commit(); err != nil {
					return Analysis{}, false, err
				}
				return latest, false, ErrRetryRequired
			}
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, false, err
	}

	if allowCreate != nil {
		if err := allowCreate(); err != nil {
			return Analysis{}, false, err
		}
	}

	if err := insertAnalysis(ctx, tx, analysis); err != nil {
		return Analysis{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Analysis{}, false, err
	}
	return analysis, true, nil
}

// UpdateStatusResultAndError updates status/result/error fields and timestamps.
func (r *PGRepo) UpdateStatusResultAndError(ctx context.Context, analysisID, status string, result *MatchResult, errorCode *string, errorMessage *string, errorRetryable *bool, startedAt *time.Time, completedAt *time.Time) error {
	const query = `
UPDATE analyses
SET status = $1,
    result = COALESCE($2::jsonb, result),
    error_code = COALESCE($3::text, error_code),
    error_message = COALESCE($4::text, error_message),
    error_retryable = CASE
        WHEN $5::boolean IS NOT NULL THEN $5::boolean
        ELSE error_retryable
    END,
    started_at = CASE
        WHEN $6::timestamptz IS NOT NULL THEN $6::timestamptz
        WHEN $1 = 'processing' AND started_at IS NULL THEN now()
        ELSE started_at
    END,
    completed_at = CASE
        WHEN $7::timestamptz IS NOT NULL THEN $7::timestamptz
        WHEN ($1 = 'completed' OR $1 = 'failed') AND completed_at IS NULL THEN now()
        ELSE completed_at
    END,
    updated_at = now()
WHERE id = $8::uuid`

	payload, err := marshalNullableJSONB(result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, status, payload, errorCode, errorMessage, errorRetryable, startedAt, completedAt, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateParsedData stores the parsed résumé and job snapshots.
func (r *PGRepo) UpdateParsedData(ctx context.Context, analysisID string, resume *resumemodel.ParsedResume, job *jobmodel.ParsedJob) error {
	const query = `
UPDATE analyses
SET parsed_resume = COALESCE($1::jsonb, parsed_resume),
    parsed_job = COALESCE($2::jsonb, parsed_job),
    updated_at = now()
WHERE id = $3::uuid`

	resumePayload, err := marshalNullableJSONB(resume)
	if err != nil {
		return err
	}
	jobPayload, err := marshalNullableJSONB(job)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, resumePayload, jobPayload, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePromptMetadata updates analysis_version and prompt_hash.
func (r *PGRepo) UpdatePromptMetadata(ctx context.Context, analysisID, analysisVersion, promptHash string) error {
	const query = `
UPDATE analyses
SET analysis_version = COALESCE(NULLIF($1::text, ''), analysis_version),
    prompt_hash = COALESCE(NULLIF($2::text, ''), prompt_hash),
    updated_at = now()
WHERE id = $3::uuid`

	res, err := r.DB.ExecContext(ctx, query, analysisVersion, promptHash, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAnalysisResult stores the completed result.
func (r *PGRepo) UpdateAnalysisResult(ctx context.Context, analysisID string, result *MatchResult, completedAt *time.Time) error {
	const query = `
UPDATE analyses
SET result = $1::jsonb,
    status = 'completed',
    completed_at = COALESCE($2::timestamptz, completed_at, now()),
    updated_at = now()
WHERE id = $3::uuid`

	payload, err := marshalNullableJSONB(normalizeResult(result))
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, completedAt, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimGuest reassigns analyses owned by a guest user to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE analyses SET user_id = $1, updated_at = now() WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ListByUser lists analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAnalysis(ctx context.Context, db execer, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, document_id, posting_id, user_id, mode, status,
	prompt_version, analysis_version, prompt_hash, provider, model, created_at, updated_at
)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`
	_, err := db.ExecContext(ctx, query,
		analysis.ID,
		analysis.DocumentID,
		analysis.PostingID,
		analysis.UserID,
		string(analysis.Mode),
		analysis.Status,
		analysis.PromptVersion,
		analysis.AnalysisVersion,
		analysis.PromptHash,
		analysis.Provider,
		analysis.Model,
		analysis.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var postingID sql.NullString
	var mode sql.NullString
	var result sql.NullString
	var parsedResume sql.NullString
	var parsedJob sql.NullString
	var promptVersion sql.NullString
	var analysisVersion sql.NullString
	var promptHash sql.NullString
	var provider sql.NullString
	var model sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var errorRetryable sql.NullBool
	var startedAt sql.NullTime
	var completedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.DocumentID,
		&postingID,
		&a.UserID,
		&mode,
		&a.Status,
		&result,
		&parsedResume,
		&parsedJob,
		&promptVersion,
		&analysisVersion,
		&promptHash,
		&provider,
		&model,
		&errorCode,
		&errorMessage,
		&errorRetryable,
		&startedAt,
		&completedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}

	a.PostingID = postingID.String
	a.Mode = AnalysisMode(mode.String)
	a.PromptVersion = promptVersion.String
	a.AnalysisVersion = analysisVersion.String
	a.PromptHash = promptHash.String
	a.Provider = provider.String
	a.Model = model.String
	a.ErrorCode = errorCode.String
	if errorMessage.Valid {
		a.ErrorMessage = &errorMessage.String
	}
	a.ErrorRetryable = errorRetryable.Bool
	if startedAt.Valid {
		a.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	if result.Valid {
		var parsed MatchResult
		if err := json.Unmarshal([]byte(result.String), &parsed); err == nil {
			a.Result = normalizeResult(&parsed)
		}
	}
	if parsedResume.Valid {
		var parsed resumemodel.ParsedResume
		if err := json.Unmarshal([]byte(parsedResume.String), &parsed); err == nil {
			a.ParsedResume = &parsed
		}
	}
	if parsedJob.Valid {
		var parsed jobmodel.ParsedJob
		if err := json.Unmarshal([]byte(parsedJob.String), &parsed); err == nil {
			a.ParsedJob = &parsed
		}
	}
	return a, nil
}

func marshalNullableJSONB(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *MatchResult:
		if v == nil {
			return nil, nil
		}
	case *resumemodel.ParsedResume:
		if v == nil {
			return nil, nil
		}
	case *jobmodel.ParsedJob:
		if v == nil {
			return nil, nil
		}
	}
	return json.Marshal(value)
}
