package usage

import (
	"context"
	"errors"
	"time"

	"workvouch/internal/plans"
	"workvouch/internal/shared/cache"
	"workvouch/internal/shared/metrics"
	"workvouch/internal/shared/telemetry"
)

type store interface {
	EnsurePeriod(ctx context.Context, employerID string) (Account, error)
	Consume(ctx context.Context, employerID string, kind Kind, n int) (Account, error)
	UpdatePlan(ctx context.Context, employerID string, u PlanUpdate) (Account, error)
	Reset(ctx context.Context, employerID string) (Account, error)
}

// Service manages employer usage accounts via an underlying store, with an
// optional read-through cache in front of it.
type Service struct {
	store store
	cache *cache.Cache
	now   func() time.Time
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore(nil), now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(st store) *Service {
	return &Service{store: st, now: time.Now}
}

// WithCache enables the account cache and returns s.
func (s *Service) WithCache(c *cache.Cache) *Service {
	s.cache = c
	return s
}

func cacheKey(employerID string) string {
	return "usage:account:" + employerID
}

// Get returns the employer's account, creating a free-tier one if absent.
func (s *Service) Get(ctx context.Context, employerID string) (Account, error) {
	var cached Account
	if err := s.cache.GetJSON(ctx, cacheKey(employerID), &cached); err == nil {
		if s.now().Before(cached.ResetsAt) {
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		telemetry.Warn("usage.cache_get_failed", map[string]any{"employer_id": employerID, "error": err})
	}

	a, err := s.store.EnsurePeriod(ctx, employerID)
	if err != nil {
		return Account{}, err
	}
	if err := s.cache.SetJSON(ctx, cacheKey(employerID), a); err != nil {
		telemetry.Warn("usage.cache_set_failed", map[string]any{"employer_id": employerID, "error": err})
	}
	return a, nil
}

// EnsurePeriod resets counters if the billing window has ended.
func (s *Service) EnsurePeriod(ctx context.Context, employerID string) (Account, error) {
	a, err := s.store.EnsurePeriod(ctx, employerID)
	if err != nil {
		return Account{}, err
	}
	s.invalidate(ctx, employerID)
	return a, nil
}

// CanConsume reports whether the employer can consume n units of kind.
func (s *Service) CanConsume(ctx context.Context, employerID string, kind Kind, n int) (bool, Account, error) {
	a, err := s.Get(ctx, employerID)
	if err != nil {
		return false, Account{}, err
	}
	probe := a
	if err := applyConsume(&probe, kind, n); err != nil {
		if errors.Is(err, ErrInvalidKind) {
			return false, a, err
		}
		return false, a, nil
	}
	return true, a, nil
}

// Consume records n units of kind if the plan allows it.
func (s *Service) Consume(ctx context.Context, employerID string, kind Kind, n int) (Account, error) {
	a, err := s.store.Consume(ctx, employerID, kind, n)
	if err != nil {
		switch {
		case errors.Is(err, ErrLimitReached):
			metrics.IncUsageRejected(string(kind), "limit_reached")
		case errors.Is(err, ErrSubscriptionInactive):
			metrics.IncUsageRejected(string(kind), "subscription_inactive")
		}
		return Account{}, err
	}
	s.invalidate(ctx, employerID)
	return a, nil
}

// UpdatePlan changes the account's tier, seats and subscription flag.
func (s *Service) UpdatePlan(ctx context.Context, employerID string, u PlanUpdate) (Account, error) {
	tier, err := plans.ParseTier(string(u.Plan))
	if err != nil {
		return Account{}, err
	}
	u.Plan = tier
	a, err := s.store.UpdatePlan(ctx, employerID, u)
	if err != nil {
		return Account{}, err
	}
	s.invalidate(ctx, employerID)
	telemetry.Info("usage.plan_updated", map[string]any{
		"employer_id":         employerID,
		"plan":                string(a.Plan),
		"seats":               a.Seats,
		"subscription_active": a.SubscriptionActive,
	})
	return a, nil
}

// Reset sets usage to zero and restarts the window.
func (s *Service) Reset(ctx context.Context, employerID string) (Account, error) {
	a, err := s.store.Reset(ctx, employerID)
	if err != nil {
		return Account{}, err
	}
	s.invalidate(ctx, employerID)
	return a, nil
}

func (s *Service) invalidate(ctx context.Context, employerID string) {
	if err := s.cache.Delete(ctx, cacheKey(employerID)); err != nil {
		telemetry.Warn("usage.cache_invalidate_failed", map[string]any{"employer_id": employerID, "error": err})
	}
}

func tierOf(raw string) plans.Tier {
	if t, err := plans.ParseTier(raw); err == nil {
		return t
	}
	return plans.Tier(raw)
}
