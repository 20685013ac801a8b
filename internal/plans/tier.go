package plans

import (
	"errors"
	"strings"
)

// Tier is a named billing level gating usage limits.
type Tier string

const (
	TierFree       Tier = "free"
	TierStarter    Tier = "starter"
	TierTeam       Tier = "team"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
	TierCustom     Tier = "custom"
)

// ErrUnknownTier is returned by ParseTier for names outside the tier table.
var ErrUnknownTier = errors.New("unknown plan tier")

// Tiers lists every tier from most to least restrictive.
func Tiers() []Tier {
	return []Tier{TierFree, TierStarter, TierTeam, TierPro, TierEnterprise, TierCustom}
}

// ParseTier normalizes raw and reports ErrUnknownTier when it names no tier.
func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	return t, nil
}

// Valid reports whether t has a row in the limits table.
func (t Tier) Valid() bool {
	_, ok := limitsTable[t]
	return ok
}

func (t Tier) String() string {
	return string(t)
}
