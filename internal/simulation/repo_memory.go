package simulation

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Record // userID -> records
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Record)}
}

func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.UserID] = append(r.data[rec.UserID], rec)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data[userID] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

// ListByUser returns the user's runs newest first. limit <= 0 returns all.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	recs := make([]Record, len(r.data[userID]))
	copy(recs, r.data[userID])
	r.mu.RUnlock()

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}
