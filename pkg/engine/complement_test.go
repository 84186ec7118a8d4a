package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func TestFindGaps_SingleWraparoundGap(t *testing.T) {
	var mask pattern.StepMask
	mask.Set(6)
	gaps := findGaps(16, mask)
	// Only one bit set means exactly one gap of length n-1, starting
	// right after the set bit.
	assert.Len(t, gaps, 1)
	assert.Equal(t, 15, gaps[0].length)
	assert.Equal(t, 7, gaps[0].start)
}

func TestFindGaps_NoSetBitsIsOneFullGap(t *testing.T) {
	gaps := findGaps(16, 0)
	assert.Equal(t, []gapRun{{start: 0, length: 16}}, gaps)
}

func TestFindGaps_MultipleGaps(t *testing.T) {
	var mask pattern.StepMask
	mask.Set(0)
	mask.Set(4)
	mask.Set(8)
	mask.Set(12)
	gaps := findGaps(16, mask)
	assert.Len(t, gaps, 4)
	for _, g := range gaps {
		assert.Equal(t, 3, g.length)
	}
}

func TestComplementPlace_EmptyWhenNoGapsOrNoTarget(t *testing.T) {
	full := allEligible(16)
	w := flatWeights(16)
	assert.Equal(t, pattern.StepMask(0), complementPlace(16, 2, full, w, 0.5, 1))
	assert.Equal(t, pattern.StepMask(0), complementPlace(16, 0, 0, w, 0.5, 1))
}

func TestComplementPlace_NeverOverlapsAnchor(t *testing.T) {
	n := 16
	anchor := euclideanMask(n, 4, 0)
	w := flatWeights(n)
	for _, drift := range []float32{0.1, 0.5, 0.9} {
		shimmer := complementPlace(n, 2, anchor, w, drift, 0xA1A2A3A4)
		assert.Equal(t, pattern.StepMask(0), shimmer&anchor, "drift=%v", drift)
	}
}

func TestComplementPlace_HonorsTargetCardinality(t *testing.T) {
	n := 16
	anchor := euclideanMask(n, 4, 0)
	w := flatWeights(n)
	for _, drift := range []float32{0.1, 0.5, 0.9} {
		shimmer := complementPlace(n, 6, anchor, w, drift, 123)
		assert.Equal(t, 6, shimmer.Popcount(n), "drift=%v", drift)
	}
}

func TestComplementPlace_WraparoundGapPositionsWrapCorrectly(t *testing.T) {
	n := 16
	var anchor pattern.StepMask
	anchor.Set(6) // single anchor hit leaves one 15-step wraparound gap
	w := flatWeights(n)
	shimmer := complementPlace(n, 5, anchor, w, 0.8, 99)
	for i := 0; i < n; i++ {
		if shimmer.Test(i) {
			assert.True(t, i >= 0 && i < n)
		}
	}
	assert.Equal(t, 5, shimmer.Popcount(n))
}
