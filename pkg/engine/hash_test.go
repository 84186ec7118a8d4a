package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_Deterministic(t *testing.T) {
	a := Hash(0xA1A2A3A4, 7)
	b := Hash(0xA1A2A3A4, 7)
	assert.Equal(t, a, b)
}

func TestHash_DifferentSaltsDiffer(t *testing.T) {
	a := Hash(1, 1)
	b := Hash(1, 2)
	assert.NotEqual(t, a, b)
}

func TestHashToFloat_InUnitInterval(t *testing.T) {
	for salt := uint32(0); salt < 256; salt++ {
		f := HashToFloat(0xDEADBEEF, salt)
		assert.GreaterOrEqual(t, f, float32(0))
		assert.Less(t, f, float32(1))
	}
}

func TestSaltBands_Disjoint(t *testing.T) {
	bands := []uint32{saltBeat1Skip, saltDisplacementBase, saltHumanizeBase, saltWildChaosBase, saltMicroJitterBase, saltPhraseRotate, saltAuxDensityBase}
	seen := map[uint32]bool{}
	for _, b := range bands {
		assert.False(t, seen[b], "salt band collision at %d", b)
		seen[b] = true
	}
}
