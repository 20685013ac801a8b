package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTierKnownTiers(t *testing.T) {
	assert.Equal(t, Limits{Reports: 75, Searches: 100, Seats: 20}, ForTier(TierPro))
	assert.Equal(t, Limits{Reports: 15, Searches: 25, Seats: 3}, ForTier(TierStarter))
	assert.Equal(t, Limits{Reports: Unlimited, Searches: Unlimited, Seats: Unlimited}, ForTier(TierCustom))
}

func TestForTierFallsBackToFree(t *testing.T) {
	free := ForTier(TierFree)
	for _, raw := range []Tier{"", "platinum", "PRO-plus"} {
		assert.Equal(t, free, ForTier(raw), "tier %q", raw)
	}
}

func TestForTierIgnoresCaseAndSpace(t *testing.T) {
	assert.Equal(t, ForTier(TierTeam), ForTier(" Team "))
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("  ENTERPRISE ")
	require.NoError(t, err)
	assert.Equal(t, TierEnterprise, tier)

	_, err = ParseTier("gold")
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = ParseTier("")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestEveryTierHasLimits(t *testing.T) {
	for _, tier := range Tiers() {
		assert.True(t, tier.Valid(), "tier %s", tier)
	}
}

func TestExceeded(t *testing.T) {
	starter := ForTier(TierStarter)
	assert.False(t, starter.Exceeded(15, 25, 3))
	assert.True(t, starter.Exceeded(16, 0, 0))
	assert.True(t, starter.Exceeded(0, 26, 0))
	assert.True(t, starter.Exceeded(0, 0, 4))

	assert.False(t, ForTier(TierCustom).Exceeded(1_000_000, 1_000_000, 1_000_000))
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(10, 9, 1))
	assert.False(t, Allows(10, 10, 1))
	assert.True(t, Allows(Unlimited, 1_000_000, 5))
}
