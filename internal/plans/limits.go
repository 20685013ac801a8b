package plans

import "strings"

// Unlimited marks a limit that is never exceeded.
const Unlimited = -1

// Limits are the numeric resource caps of a plan tier.
type Limits struct {
	Reports  int `json:"reports"`
	Searches int `json:"searches"`
	Seats    int `json:"seats"`
}

var limitsTable = map[Tier]Limits{
	TierFree:       {Reports: 1, Searches: 5, Seats: 1},
	TierStarter:    {Reports: 15, Searches: 25, Seats: 3},
	TierTeam:       {Reports: 40, Searches: 60, Seats: 10},
	TierPro:        {Reports: 75, Searches: 100, Seats: 20},
	TierEnterprise: {Reports: 300, Searches: 500, Seats: 100},
	TierCustom:     {Reports: Unlimited, Searches: Unlimited, Seats: Unlimited},
}

// ForTier returns the limits of tier. Unknown or empty tiers get the free
// tier's limits; callers that must reject them use ParseTier first.
func ForTier(tier Tier) Limits {
	if l, ok := limitsTable[Tier(strings.ToLower(strings.TrimSpace(string(tier))))]; ok {
		return l
	}
	return limitsTable[TierFree]
}

// Exceeded reports whether any usage value is above its limit.
func (l Limits) Exceeded(reports, searches, seats int) bool {
	return over(reports, l.Reports) || over(searches, l.Searches) || over(seats, l.Seats)
}

// Allows reports whether used+n stays within limit.
func Allows(limit, used, n int) bool {
	if limit == Unlimited {
		return true
	}
	return used+n <= limit
}

func over(used, limit int) bool {
	return limit != Unlimited && used > limit
}
