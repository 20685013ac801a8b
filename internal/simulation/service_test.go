package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workvouch/internal/plans"
	"workvouch/internal/usage"
)

type stubAccounts struct {
	acct usage.Account
	err  error
}

func (s stubAccounts) Get(context.Context, string) (usage.Account, error) {
	return s.acct, s.err
}

func TestSimulateRecordsRun(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	rec, err := svc.Simulate(context.Background(), "user-1", Inputs{Plan: plans.TierPro, Seats: 4, SubscriptionActive: true})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 75, rec.Output.AllowedReports)

	got, err := svc.Get(context.Background(), "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = svc.Get(context.Background(), "user-2", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryNewestFirstAndCapped(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Simulate(context.Background(), "user-1", Inputs{Plan: plans.TierFree, ReportsUsed: i})
		require.NoError(t, err)
	}

	recs, err := svc.History(context.Background(), "user-1", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].Inputs.ReportsUsed)
	assert.Equal(t, 1, recs[1].Inputs.ReportsUsed)

	recs, err = svc.History(context.Background(), "nobody", 0)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestSimulateAccountUsesLiveUsage(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubAccounts{acct: usage.Account{
		EmployerID:   "acme",
		Plan:         plans.TierStarter,
		Seats:        2,
		ReportsUsed:  20,
		SearchesUsed: 30,
	}})

	in, out, err := svc.SimulateAccount(context.Background(), "acme", AdParams{Impressions: float(10000), CTR: float(2)})
	require.NoError(t, err)
	assert.Equal(t, plans.TierStarter, in.Plan)
	assert.True(t, out.OverLimit)
	assert.True(t, out.SubscriptionExpired)
	require.NotNil(t, out.EstimatedClicks)
	assert.Equal(t, 200.0, *out.EstimatedClicks)
}

func TestSimulateAccountPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(NewMemoryRepo(), stubAccounts{err: boom})
	_, _, err := svc.SimulateAccount(context.Background(), "acme", AdParams{})
	assert.ErrorIs(t, err, boom)

	_, _, err = NewService(NewMemoryRepo(), nil).SimulateAccount(context.Background(), "acme", AdParams{})
	assert.Error(t, err)
}

func simulationPlanLabels(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	labels := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "simulations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				labels[lp.GetValue()] = true
			}
		}
	}
	return labels
}

func TestSimulateNormalizesPlan(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	for _, raw := range []string{"pro", "Pro", " PRO "} {
		rec, err := svc.Simulate(ctx, "user-1", Inputs{Plan: plans.Tier(raw), SubscriptionActive: true})
		require.NoError(t, err)
		assert.Equal(t, plans.TierPro, rec.Inputs.Plan, raw)
		assert.Equal(t, 75, rec.Output.AllowedReports, raw)
	}
	rec, err := svc.Simulate(ctx, "user-1", Inputs{Plan: " Diamond-XYZ "})
	require.NoError(t, err)
	assert.Equal(t, plans.Tier("diamond-xyz"), rec.Inputs.Plan)
	assert.Equal(t, 1, rec.Output.AllowedReports)

	labels := simulationPlanLabels(t)
	assert.True(t, labels["pro"])
	assert.True(t, labels[unknownPlanLabel])
	for _, bad := range []string{"Pro", " PRO ", "diamond-xyz", " Diamond-XYZ "} {
		assert.False(t, labels[bad], bad)
	}
}

func TestSimulateAccountNormalizesPlan(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubAccounts{acct: usage.Account{Plan: "Starter", SubscriptionActive: true}})

	in, out, err := svc.SimulateAccount(context.Background(), "acme", AdParams{})
	require.NoError(t, err)
	assert.Equal(t, plans.TierStarter, in.Plan)
	assert.Equal(t, 15, out.AllowedReports)
}
