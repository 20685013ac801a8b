package usage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workvouch/internal/plans"
	"workvouch/internal/shared/cache"
)

func newCachedService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(cache.Options{Addr: mr.Addr(), TTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return NewService().WithCache(c), mr
}

func TestServiceGetPopulatesCache(t *testing.T) {
	svc, mr := newCachedService(t)

	a, err := svc.Get(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, plans.TierFree, a.Plan)
	assert.True(t, mr.Exists("usage:account:emp-1"))
}

func TestServiceGetServesFromCache(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()
	_, err := svc.Get(ctx, "emp-1")
	require.NoError(t, err)

	cached := `{"employerId":"emp-1","plan":"pro","seats":7,"reportsUsed":2,"searchesUsed":0,"subscriptionActive":true,"resetsAt":"2999-01-01T00:00:00Z"}`
	require.NoError(t, mr.Set("usage:account:emp-1", cached))

	a, err := svc.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, plans.TierPro, a.Plan)
	assert.Equal(t, 7, a.Seats)
}

func TestServiceGetIgnoresExpiredCachedWindow(t *testing.T) {
	svc, mr := newCachedService(t)
	stale := `{"employerId":"emp-1","plan":"pro","seats":7,"reportsUsed":2,"resetsAt":"2000-01-01T00:00:00Z"}`
	require.NoError(t, mr.Set("usage:account:emp-1", stale))

	a, err := svc.Get(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, plans.TierFree, a.Plan)
}

func TestServiceWritesInvalidateCache(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()
	_, err := svc.Get(ctx, "emp-1")
	require.NoError(t, err)

	_, err = svc.Consume(ctx, "emp-1", KindSearch, 2)
	require.NoError(t, err)
	assert.False(t, mr.Exists("usage:account:emp-1"))

	a, err := svc.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, a.SearchesUsed)
}

func TestServiceCacheOutageFallsBackToStore(t *testing.T) {
	svc, mr := newCachedService(t)
	mr.Close()

	a, err := svc.Get(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", a.EmployerID)
}

func TestServiceCanConsume(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	ok, _, err := svc.CanConsume(ctx, "emp-1", KindSearch, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _, err = svc.CanConsume(ctx, "emp-1", KindSearch, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.CanConsume(ctx, "emp-1", Kind("bogus"), 1)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestServiceUpdatePlanNormalizesTier(t *testing.T) {
	svc := NewService()
	a, err := svc.UpdatePlan(context.Background(), "emp-1", PlanUpdate{Plan: " Enterprise ", Seats: 50, SubscriptionActive: true})
	require.NoError(t, err)
	assert.Equal(t, plans.TierEnterprise, a.Plan)

	_, err = svc.UpdatePlan(context.Background(), "emp-1", PlanUpdate{Plan: "platinum", Seats: 1})
	assert.ErrorIs(t, err, plans.ErrUnknownTier)
}
