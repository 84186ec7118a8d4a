package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func TestTargetAnchorHits_WithinZoneBounds(t *testing.T) {
	tests := []struct {
		energy   float32
		wantZone pattern.Zone
		min, max int
	}{
		{0.10, pattern.Minimal, 1, 2},
		{0.35, pattern.Groove, 3, 4},
		{0.60, pattern.Build, 4, 6},
		{0.90, pattern.Peak, 6, 10},
	}
	for _, tt := range tests {
		z := pattern.ZoneOf(tt.energy)
		assert.Equal(t, tt.wantZone, z)
		hits := targetAnchorHits(tt.energy, z)
		assert.GreaterOrEqual(t, hits, tt.min)
		assert.LessOrEqual(t, hits, tt.max)
	}
}

func TestTargetShimmerHits_ZeroBalanceIsSilent(t *testing.T) {
	assert.Equal(t, 0, targetShimmerHits(4, 0))
}

func TestTargetShimmerHits_ZeroAnchorIsSilent(t *testing.T) {
	assert.Equal(t, 0, targetShimmerHits(0, 1.0))
}

func TestTargetShimmerHits_CanExceedAnchor(t *testing.T) {
	hits := targetShimmerHits(4, 1.0) // round(4*1.5*1.0) = 6
	assert.Equal(t, 6, hits)
}

func TestEligibilityMask_HigherEnergyAdmitsMore(t *testing.T) {
	n := 16
	w := flatWeights(n)
	minimalElig := eligibilityMask(n, w, pattern.Minimal)
	peakElig := eligibilityMask(n, w, pattern.Peak)
	assert.LessOrEqual(t, minimalElig.Popcount(n), peakElig.Popcount(n))
}

func TestComputeBudget_InvariantAnchorNeverExceedsEligibility(t *testing.T) {
	n := 16
	w := flatWeights(n)
	for _, e := range []float32{0.05, 0.3, 0.6, 0.95} {
		b := computeBudget(n, w, e, 0.5)
		assert.LessOrEqual(t, b.AnchorHits, b.Eligibility.Popcount(n))
	}
}

func TestComputeBudget_SilentShimmer(t *testing.T) {
	n := 16
	w := flatWeights(n)
	b := computeBudget(n, w, 0.5, 0.0)
	assert.Equal(t, 0, b.ShimmerHits)
}
