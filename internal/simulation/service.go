package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"workvouch/internal/plans"
	"workvouch/internal/shared/metrics"
	"workvouch/internal/shared/telemetry"
	"workvouch/internal/usage"
)

const (
	defaultHistory = 20
	maxHistory     = 100
)

// unknownPlanLabel is the metric label for plans outside the tier table.
const unknownPlanLabel = "unknown"

var errNoAccounts = errors.New("no account source configured")

// normalizePlan canonicalises in.Plan and returns the metric label for it.
// Unknown plans keep their folded name and share one label.
func normalizePlan(in *Inputs) string {
	tier, err := plans.ParseTier(string(in.Plan))
	if err != nil {
		in.Plan = plans.Tier(strings.ToLower(strings.TrimSpace(string(in.Plan))))
		return unknownPlanLabel
	}
	in.Plan = tier
	return string(tier)
}

// AccountSource provides the live usage account of an employer.
type AccountSource interface {
	Get(ctx context.Context, employerID string) (usage.Account, error)
}

// AdParams optionally adds an advertiser estimate to a simulation.
type AdParams struct {
	Impressions *float64 `form:"impressions" binding:"omitempty,gte=0,lte=1000000000000"`
	CTR         *float64 `form:"ctr" binding:"omitempty,gte=0,lte=100"`
}

// Service runs simulations and keeps their history.
type Service struct {
	Repo     Repo
	Accounts AccountSource
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, accounts AccountSource) *Service {
	return &Service{Repo: repo, Accounts: accounts, now: time.Now}
}

// Simulate runs the engine on in and records the run for userID.
func (s *Service) Simulate(ctx context.Context, userID string, in Inputs) (Record, error) {
	label := normalizePlan(&in)
	out := Run(in)
	rec := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Inputs:    in,
		Output:    out,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("store simulation: %w", err)
	}

	metrics.ObserveSimulation(label, out.OverLimit)
	telemetry.Info("simulation.run", map[string]any{
		"simulation_id":        rec.ID,
		"user_id":              userID,
		"plan":                 string(in.Plan),
		"over_limit":           out.OverLimit,
		"subscription_expired": out.SubscriptionExpired,
	})
	return rec, nil
}

// SimulateAccount runs the engine on the employer's current usage account.
// The result is not recorded.
func (s *Service) SimulateAccount(ctx context.Context, employerID string, ad AdParams) (Inputs, Output, error) {
	if s.Accounts == nil {
		return Inputs{}, Output{}, errNoAccounts
	}
	a, err := s.Accounts.Get(ctx, employerID)
	if err != nil {
		return Inputs{}, Output{}, err
	}
	in := Inputs{
		Plan:                  a.Plan,
		Seats:                 a.Seats,
		ReportsUsed:           a.ReportsUsed,
		SearchesUsed:          a.SearchesUsed,
		SubscriptionActive:    a.SubscriptionActive,
		AdvertiserImpressions: ad.Impressions,
		AdvertiserCTR:         ad.CTR,
	}
	label := normalizePlan(&in)
	out := Run(in)
	metrics.ObserveSimulation(label, out.OverLimit)
	return in, out, nil
}

// History returns the user's most recent runs, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultHistory
	}
	if limit > maxHistory {
		limit = maxHistory
	}
	recs, err := s.Repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Get returns one of the user's runs.
func (s *Service) Get(ctx context.Context, userID, id string) (Record, error) {
	return s.Repo.GetByID(ctx, userID, id)
}
