package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]Account
	now  func() time.Time
}

func newMemoryStore(now func() time.Time) *memoryStore {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		data: make(map[string]Account),
		now:  now,
	}
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, employerID string) (Account, error) {
	return s.mutate(ctx, employerID, func(*Account) error { return nil })
}

func (s *memoryStore) Consume(ctx context.Context, employerID string, kind Kind, n int) (Account, error) {
	return s.mutate(ctx, employerID, func(a *Account) error {
		return applyConsume(a, kind, n)
	})
}

func (s *memoryStore) UpdatePlan(ctx context.Context, employerID string, u PlanUpdate) (Account, error) {
	return s.mutate(ctx, employerID, func(a *Account) error {
		return applyPlan(a, u)
	})
}

func (s *memoryStore) Reset(ctx context.Context, employerID string) (Account, error) {
	return s.mutate(ctx, employerID, func(a *Account) error {
		a.ReportsUsed = 0
		a.SearchesUsed = 0
		a.ResetsAt = nextReset(s.now())
		return nil
	})
}

// mutate loads or creates the account, rolls its period, then applies fn.
// Nothing is stored if fn fails.
func (s *memoryStore) mutate(ctx context.Context, employerID string, fn func(*Account) error) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data[employerID]
	if !ok {
		a = defaultAccount(employerID, now)
	}
	rollPeriod(&a, now)
	s.data[employerID] = a

	next := a
	if err := fn(&next); err != nil {
		return Account{}, err
	}
	s.data[employerID] = next
	return next, nil
}
