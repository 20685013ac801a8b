package usage

import (
	"time"

	"workvouch/internal/plans"
)

func defaultAccount(employerID string, now time.Time) Account {
	return Account{
		EmployerID: employerID,
		Plan:       plans.TierFree,
		Seats:      1,
		ResetsAt:   nextReset(now),
	}
}

func nextReset(now time.Time) time.Time {
	return now.UTC().AddDate(0, 1, 0)
}

// rollPeriod zeroes counters once the window has ended. It reports whether a
// reset happened.
func rollPeriod(a *Account, now time.Time) bool {
	if now.Before(a.ResetsAt) {
		return false
	}
	a.ReportsUsed = 0
	a.SearchesUsed = 0
	a.ResetsAt = nextReset(now)
	return true
}
