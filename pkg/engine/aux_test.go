package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func TestAuxMask_SilentOutsideBuildOrFillZone(t *testing.T) {
	n := 16
	budget := pattern.BarBudget{Eligibility: allEligible(n)}
	m := auxMask(n, budget, 0, 0, flatWeights(n), 1.0, false, 1)
	assert.Equal(t, pattern.StepMask(0), m)
}

func TestAuxMask_SilentWhenBuildZero(t *testing.T) {
	n := 16
	budget := pattern.BarBudget{Eligibility: allEligible(n)}
	m := auxMask(n, budget, 0, 0, flatWeights(n), 0, true, 1)
	assert.Equal(t, pattern.StepMask(0), m)
}

func TestAuxMask_NeverOverlapsAnchorOrShimmer(t *testing.T) {
	n := 16
	anchor := euclideanMask(n, 4, 0)
	shimmer := euclideanMask(n, 2, 1)
	budget := pattern.BarBudget{Eligibility: allEligible(n)}
	m := auxMask(n, budget, anchor, shimmer, flatWeights(n), 1.0, true, 7)
	assert.Equal(t, pattern.StepMask(0), m&anchor)
	assert.Equal(t, pattern.StepMask(0), m&shimmer)
}

func TestAuxMask_RespectsEligibility(t *testing.T) {
	n := 16
	var elig pattern.StepMask
	elig.Set(2)
	budget := pattern.BarBudget{Eligibility: elig}
	for seed := uint32(0); seed < 64; seed++ {
		m := auxMask(n, budget, 0, 0, flatWeights(n), 1.0, true, seed)
		for i := 0; i < n; i++ {
			if m.Test(i) {
				assert.Equal(t, 2, i)
			}
		}
	}
}
