package postings

import "context"

// Repo defines persistence operations for postings.
type Repo interface {
	Create(ctx context.Context, posting Posting) error
	GetByID(ctx context.Context, userID, postingID string) (Posting, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Posting, error)
}
