package simulation

import (
	"time"

	"workvouch/internal/plans"
)

// Inputs describe one employer usage scenario.
type Inputs struct {
	Plan                  plans.Tier `json:"plan" binding:"required,plantier"`
	Seats                 int        `json:"seats" binding:"gte=0"`
	ReportsUsed           int        `json:"reportsUsed" binding:"gte=0"`
	SearchesUsed          int        `json:"searchesUsed" binding:"gte=0"`
	SubscriptionActive    bool       `json:"subscriptionActive"`
	AdvertiserImpressions *float64   `json:"advertiserImpressions,omitempty" binding:"omitempty,gte=0,lte=1000000000000"`
	AdvertiserCTR         *float64   `json:"advertiserCTR,omitempty" binding:"omitempty,gte=0,lte=100"`
}

// Output is the derived result of a simulation. Limits use plans.Unlimited
// (-1) for uncapped resources. Ad fields are present only when the inputs
// carry a positive impression count and a CTR.
type Output struct {
	AllowedReports         int      `json:"allowedReports"`
	AllowedSearches        int      `json:"allowedSearches"`
	SeatsAllowed           int      `json:"seatsAllowed"`
	OverLimit              bool     `json:"overLimit"`
	SubscriptionExpired    bool     `json:"subscriptionExpired"`
	RehireProbability      int      `json:"rehireProbability"`
	TeamCompatibilityScore int      `json:"teamCompatibilityScore"`
	WorkforceRiskScore     int      `json:"workforceRiskScore"`
	EstimatedRevenue       *float64 `json:"estimatedRevenue,omitempty"`
	EstimatedAdROI         *float64 `json:"estimatedAdROI,omitempty"`
	EstimatedClicks        *float64 `json:"estimatedClicks,omitempty"`
}

// Record is a persisted simulation run.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Inputs    Inputs    `json:"inputs"`
	Output    Output    `json:"output"`
	CreatedAt time.Time `json:"createdAt"`
}
