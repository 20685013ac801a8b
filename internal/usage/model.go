package usage

import (
	"time"

	"workvouch/internal/plans"
)

// Kind names a metered employer action.
type Kind string

const (
	KindReport Kind = "report"
	KindSearch Kind = "search"
)

// Account is an employer's plan and consumption snapshot for the current
// billing window.
type Account struct {
	EmployerID         string     `json:"employerId"`
	Plan               plans.Tier `json:"plan"`
	Seats              int        `json:"seats"`
	ReportsUsed        int        `json:"reportsUsed"`
	SearchesUsed       int        `json:"searchesUsed"`
	SubscriptionActive bool       `json:"subscriptionActive"`
	ResetsAt           time.Time  `json:"resetsAt"`
}

// Limits returns the plan limits that apply to the account.
func (a Account) Limits() plans.Limits {
	return plans.ForTier(a.Plan)
}

// PlanUpdate changes an account's tier, seat count and subscription state.
type PlanUpdate struct {
	Plan               plans.Tier `json:"plan" binding:"required,plantier"`
	Seats              int        `json:"seats" binding:"gte=1"`
	SubscriptionActive bool       `json:"subscriptionActive"`
}

// applyConsume adds n units of kind to a, enforcing subscription and plan
// limits. a is left untouched on error.
func applyConsume(a *Account, kind Kind, n int) error {
	if n <= 0 {
		return nil
	}
	if !a.SubscriptionActive && a.Plan != plans.TierFree {
		return ErrSubscriptionInactive
	}
	limits := a.Limits()
	switch kind {
	case KindReport:
		if !plans.Allows(limits.Reports, a.ReportsUsed, n) {
			return ErrLimitReached
		}
		a.ReportsUsed += n
	case KindSearch:
		if !plans.Allows(limits.Searches, a.SearchesUsed, n) {
			return ErrLimitReached
		}
		a.SearchesUsed += n
	default:
		return ErrInvalidKind
	}
	return nil
}

// applyPlan validates u against its tier and copies it onto a.
func applyPlan(a *Account, u PlanUpdate) error {
	limits := plans.ForTier(u.Plan)
	if limits.Seats != plans.Unlimited && u.Seats > limits.Seats {
		return ErrSeatsExceeded
	}
	a.Plan = u.Plan
	a.Seats = u.Seats
	a.SubscriptionActive = u.SubscriptionActive
	return nil
}
