package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func TestJitterCapMs_ZoneTable(t *testing.T) {
	assert.Equal(t, float32(0), jitterCapMs(pattern.Minimal))
	assert.Equal(t, float32(3), jitterCapMs(pattern.Groove))
	assert.Equal(t, float32(6), jitterCapMs(pattern.Build))
	assert.Equal(t, float32(12), jitterCapMs(pattern.Peak))
}

func TestSwingOffsetSamples_OnlyOddSteps(t *testing.T) {
	assert.Equal(t, int32(0), swingOffsetSamples(0, 1.0, 1000))
	assert.Equal(t, int32(0), swingOffsetSamples(4, 1.0, 1000))
	assert.NotEqual(t, int32(0), swingOffsetSamples(1, 1.0, 1000))
}

func TestMicroJitterSamples_ZeroInMinimalZone(t *testing.T) {
	offset := microJitterSamples(1, 1.0, pattern.Minimal, 42, 44100)
	assert.Equal(t, int32(0), offset)
}

func TestMicroJitterSamples_ZeroWhenFlavorZero(t *testing.T) {
	offset := microJitterSamples(1, 0.0, pattern.Peak, 42, 44100)
	assert.Equal(t, int32(0), offset)
}

func TestMicroDisplacement_InactiveOutsideShapeWindow(t *testing.T) {
	assert.Equal(t, int8(0), microDisplacement(4, 16, 0.1, 1))
	assert.Equal(t, int8(0), microDisplacement(4, 16, 0.9, 1))
	assert.Equal(t, int8(0), microDisplacement(0, 16, 0.5, 1)) // step 0 exempt
}

func TestApplyDisplacement_SkipsOnCollisionOrBeat1(t *testing.T) {
	var mask pattern.StepMask
	mask.Set(5)
	mask.Set(6)
	m, moved := applyDisplacement(16, mask, 5, 1) // would collide with step 6
	assert.False(t, moved)
	assert.Equal(t, mask, m)

	var mask2 pattern.StepMask
	mask2.Set(1)
	m2, moved2 := applyDisplacement(16, mask2, 1, -1) // would land on step 0
	assert.False(t, moved2)
	assert.Equal(t, mask2, m2)
}

func TestApplyDisplacement_MovesWhenClear(t *testing.T) {
	var mask pattern.StepMask
	mask.Set(5)
	m, moved := applyDisplacement(16, mask, 5, 1)
	assert.True(t, moved)
	assert.False(t, m.Test(5))
	assert.True(t, m.Test(6))
}

func TestVelocityShape_ClampedRange(t *testing.T) {
	n := 16
	for _, build := range []float32{0, 0.5, 1.0} {
		for _, accent := range []float32{0, 0.5, 1.0} {
			for _, progress := range []float32{0.0, 0.65, 0.9} {
				pos := pattern.PhrasePos{Progress: progress, IsBuildZone: progress >= 0.60 && progress < 0.875, IsFillZone: progress >= 0.875}
				v := velocityShape(0, n, pos, accent, build)
				assert.GreaterOrEqual(t, v, float32(0.20))
				assert.LessOrEqual(t, v, float32(1.00))
			}
		}
	}
}

func TestVelocityShape_BuildRaisesVelocityOnAverage(t *testing.T) {
	n := 16
	lowBuildPos := pattern.PhrasePos{Progress: 0.70, IsBuildZone: true}
	belowBuildPos := pattern.PhrasePos{Progress: 0.30}
	withBuild := velocityShape(2, n, lowBuildPos, 0.5, 1.0)
	withoutBuild := velocityShape(2, n, belowBuildPos, 0.5, 1.0)
	assert.GreaterOrEqual(t, withBuild, withoutBuild)
}
