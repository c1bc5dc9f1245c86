package postings

import (
	"context"
	"time"

	"github.com/google/uuid"

	jobparse "careermatch-backend/job/parse"
)

// Service contains business logic for postings.
type Service struct {
	Repo   Repo
	Parser *jobparse.Parser
}

// Create parses the raw posting text and persists the parsed snapshot.
func (s *Service) Create(ctx context.Context, userID, rawText, sourceURL string) (Posting, error) {
	if userID == "" || rawText == "" {
		return Posting{}, ErrInvalidInput
	}

	parsed := s.Parser.Parse(rawText)

	posting := Posting{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     parsed.Title,
		Company:   parsed.Company.Name,
		RawText:   rawText,
		SourceURL: sourceURL,
		Parsed:    parsed,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, posting); err != nil {
		return Posting{}, err
	}
	return posting, nil
}

// Get returns a posting by ID.
func (s *Service) Get(ctx context.Context, userID, postingID string) (Posting, error) {
	if userID == "" || postingID == "" {
		return Posting{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, postingID)
}

// List returns postings for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Posting, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
