package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildShapeCandidates_FloorClamped(t *testing.T) {
	c := buildShapeCandidates(16, 0xA1A2A3A4, 0.5)
	for i := 0; i < 16; i++ {
		assert.GreaterOrEqual(t, c.stable[i], float32(0.05))
		assert.GreaterOrEqual(t, c.syncopated[i], float32(0.05))
		assert.GreaterOrEqual(t, c.wild[i], float32(0.05))
		assert.LessOrEqual(t, c.stable[i], float32(1.0))
		assert.LessOrEqual(t, c.syncopated[i], float32(1.0))
		assert.LessOrEqual(t, c.wild[i], float32(1.0))
	}
}

func TestBuildShapeCandidates_SyncopatedBeat1Floor(t *testing.T) {
	for _, energy := range []float32{0.0, 0.5, 1.0} {
		c := buildShapeCandidates(16, 0x12345678, energy)
		floor := 0.50 + 0.20*energy
		assert.GreaterOrEqual(t, c.syncopated[0], floor-1e-6)
	}
}

func TestBlendShape_ZoneBoundaries(t *testing.T) {
	n := 16
	c := buildShapeCandidates(n, 0xCAFEBABE, 0.5)

	pureStable := blendShape(n, 0.0, c)
	for i := 0; i < n; i++ {
		assert.InDelta(t, c.stable[i], pureStable[i], 0.06)
	}

	pureSync := blendShape(n, 0.50, c)
	assert.Equal(t, c.syncopated, pureSync)

	pureWild := blendShape(n, 1.0, c)
	assert.Equal(t, c.wild, pureWild)
}

func TestBlendShape_AlwaysClamped(t *testing.T) {
	n := 16
	c := buildShapeCandidates(n, 0x99, 0.9)
	for _, shape := range []float32{0, 0.1, 0.28, 0.3, 0.48, 0.5, 0.52, 0.6, 0.68, 0.7, 0.72, 0.9, 1.0} {
		out := blendShape(n, shape, c)
		for i := 0; i < n; i++ {
			assert.GreaterOrEqual(t, out[i], float32(0.05))
			assert.LessOrEqual(t, out[i], float32(1.0))
		}
	}
}

func TestIsAnticipation(t *testing.T) {
	assert.True(t, isAnticipation(15, 16)) // precedes step 0
	assert.True(t, isAnticipation(7, 16))  // precedes step 8 (half-bar)
	assert.False(t, isAnticipation(1, 16))
}
