package simulation

import (
	"workvouch/internal/plans"
	"workvouch/internal/scoring"
)

// Run evaluates in against its plan limits and the score calculators. It is
// pure: the same inputs always produce the same output.
func Run(in Inputs) Output {
	limits := plans.ForTier(in.Plan)

	out := Output{
		AllowedReports:         limits.Reports,
		AllowedSearches:        limits.Searches,
		SeatsAllowed:           limits.Seats,
		OverLimit:              limits.Exceeded(in.ReportsUsed, in.SearchesUsed, in.Seats),
		SubscriptionExpired:    !in.SubscriptionActive,
		RehireProbability:      int(scoring.RehireProbability(float64(in.ReportsUsed), float64(in.SearchesUsed))),
		TeamCompatibilityScore: int(scoring.TeamCompatibility(float64(in.Seats))),
		WorkforceRiskScore:     int(scoring.WorkforceRisk(float64(in.ReportsUsed))),
	}

	if in.AdvertiserImpressions != nil && *in.AdvertiserImpressions > 0 && in.AdvertiserCTR != nil {
		est := scoring.AdROI(*in.AdvertiserImpressions, *in.AdvertiserCTR)
		out.EstimatedClicks = &est.Clicks
		out.EstimatedRevenue = &est.EstimatedRevenue
		out.EstimatedAdROI = &est.ROI
	}
	return out
}
