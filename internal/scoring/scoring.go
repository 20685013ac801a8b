// Package scoring holds the deterministic score calculators behind employer
// simulations. Every function is pure and total: out-of-range input is clamped
// and NaN propagates to the result.
package scoring

import "math"

const (
	rehireActivityCap = 200
	rehireMin         = 60
	rehireMax         = 98

	teamSeatCap = 30
	teamMin     = 65
	teamMax     = 95

	riskReportCap = 100
	riskMin       = 30
	riskMax       = 70

	// RevenuePerClick is the estimated advertiser revenue of one click.
	RevenuePerClick = 4.0
	// BaselineAdSpend is the fixed spend ROI is measured against.
	BaselineAdSpend = 1000.0
)

// RehireProbability maps combined report and search activity onto [60, 98].
func RehireProbability(reportsUsed, searchesUsed float64) float64 {
	activity := clamp(reportsUsed+searchesUsed, 0, rehireActivityCap)
	return math.Round(scale(activity/rehireActivityCap, rehireMin, rehireMax))
}

// TeamCompatibility maps a seat count onto [65, 95].
func TeamCompatibility(seats float64) float64 {
	s := clamp(seats, 0, teamSeatCap)
	return math.Round(scale(s/teamSeatCap, teamMin, teamMax))
}

// WorkforceRisk maps report volume inversely onto [30, 70]; more reports
// yield a lower risk.
func WorkforceRisk(reportsUsed float64) float64 {
	r := clamp(reportsUsed, 0, riskReportCap)
	return math.Round(scale(1-r/riskReportCap, riskMin, riskMax))
}

// AdEstimate is the projected outcome of an advertiser campaign.
type AdEstimate struct {
	Clicks           float64 `json:"estimatedClicks"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	ROI              float64 `json:"estimatedAdROI"`
}

// AdROI projects clicks, revenue and ROI from impressions and a CTR given in
// percent. Non-positive impressions yield a zero estimate.
func AdROI(impressions, ctrPercent float64) AdEstimate {
	if impressions <= 0 {
		return AdEstimate{}
	}
	clicks := impressions * (ctrPercent / 100)
	revenue := clicks * RevenuePerClick
	return AdEstimate{
		Clicks:           math.Round(clicks),
		EstimatedRevenue: round2(revenue),
		ROI:              round2(revenue / BaselineAdSpend),
	}
}

func scale(fraction, lo, hi float64) float64 {
	return lo + fraction*(hi-lo)
}

// clamp keeps NaN as NaN; math.Max and math.Min both propagate it.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
