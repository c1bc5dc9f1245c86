package postings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	jobmodel "careermatch-backend/job/model"
)

// PGRepo implements Repo using Postgres. The parsed snapshot is stored as
// jsonb alongside the raw text.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new posting.
func (r *PGRepo) Create(ctx context.Context, posting Posting) error {
	const query = `
INSERT INTO postings (
    id,
    user_id,
    title,
    company,
    raw_text,
    source_url,
    parsed,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	parsed, err := json.Marshal(posting.Parsed)
	if err != nil {
		return fmt.Errorf("marshal parsed posting: %w", err)
	}

	var sourceURL sql.NullString
	if posting.SourceURL != "" {
		sourceURL = sql.NullString{String: posting.SourceURL, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		posting.ID,
		posting.UserID,
		posting.Title,
		posting.Company,
		posting.RawText,
		sourceURL,
		parsed,
		posting.CreatedAt,
	)
	return err
}

// GetByID fetches a posting by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, postingID string) (Posting, error) {
	const query = `
SELECT id, user_id, title, company, raw_text, source_url, parsed, created_at
FROM postings
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, postingID))
}

// ClaimGuest reassigns postings owned by a guest user to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE postings SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ListByUser returns postings for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Posting, error) {
	const query = `
SELECT id, user_id, title, company, raw_text, source_url, parsed, created_at
FROM postings
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Posting{}
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Posting, error) {
	var p Posting
	var sourceURL sql.NullString
	var parsed []byte
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Company,
		&p.RawText,
		&sourceURL,
		&parsed,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, err
	}
	if sourceURL.Valid {
		p.SourceURL = sourceURL.String
	}
	p.Parsed = jobmodel.EmptyJob()
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &p.Parsed); err != nil {
			return Posting{}, fmt.Errorf("unmarshal parsed posting id=%s: %w", p.ID, err)
		}
	}
	return p, nil
}
