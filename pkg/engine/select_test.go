package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func allEligible(n int) pattern.StepMask {
	var m pattern.StepMask
	for i := 0; i < n; i++ {
		m.Set(i)
	}
	return m
}

func TestSelectTopK_RespectsCardinality(t *testing.T) {
	n := 16
	w := flatWeights(n)
	elig := allEligible(n)
	m := selectTopK(n, 4, w, elig, 0xA1A2A3A4, 2)
	assert.Equal(t, 4, m.Popcount(n))
}

func TestSelectTopK_NeverSelectsIneligible(t *testing.T) {
	n := 16
	w := flatWeights(n)
	var elig pattern.StepMask
	elig.Set(0)
	elig.Set(4)
	elig.Set(8)
	elig.Set(12)
	m := selectTopK(n, 4, w, elig, 42, 2)
	for i := 0; i < n; i++ {
		if m.Test(i) {
			assert.True(t, elig.Test(i))
		}
	}
}

func TestSelectTopK_Deterministic(t *testing.T) {
	n := 16
	w := flatWeights(n)
	elig := allEligible(n)
	a := selectTopK(n, 4, w, elig, 777, 2)
	b := selectTopK(n, 4, w, elig, 777, 2)
	assert.Equal(t, a, b)
}

func TestSelectTopK_RelaxesSpacingWhenBlocked(t *testing.T) {
	n := 8
	w := flatWeights(n)
	elig := allEligible(n)
	// spacing 4 on an 8-step bar cannot fit 6 hits without relaxing.
	m := selectTopK(n, 6, w, elig, 1, 4)
	assert.Equal(t, 6, m.Popcount(n))
}

func TestSpacingOK_WrapsAroundBar(t *testing.T) {
	assert.False(t, spacingOK(15, []int{0}, 16, 2)) // 15 and 0 are distance 1 apart, wrapping
	assert.True(t, spacingOK(8, []int{0}, 16, 4))
}
