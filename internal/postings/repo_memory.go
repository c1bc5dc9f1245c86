package postings

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Posting // userID -> postings
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Posting)}
}

// Create stores a posting for a user.
func (r *MemoryRepo) Create(ctx context.Context, posting Posting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[posting.UserID] = append(r.data[posting.UserID], posting)
	return nil
}

// GetByID returns a posting by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, postingID string) (Posting, error) {
	if err := ctx.Err(); err != nil {
		return Posting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.data[userID] {
		if p.ID == postingID {
			return p, nil
		}
	}
	return Posting{}, ErrNotFound
}

// ClaimGuest reassigns postings owned by a guest user to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	postings := r.data[guestUserID]
	if len(postings) == 0 {
		return 0, nil
	}
	for i := range postings {
		postings[i].UserID = authedUserID
	}
	r.data[authedUserID] = append(r.data[authedUserID], postings...)
	delete(r.data, guestUserID)
	return len(postings), nil
}

// ListByUser returns postings for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	userPostings := r.data[userID]
	r.mu.RUnlock()

	if len(userPostings) == 0 || offset >= len(userPostings) {
		return []Posting{}, nil
	}

	out := make([]Posting, len(userPostings))
	copy(out, userPostings)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}
