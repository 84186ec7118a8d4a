package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// auxDensityCap bounds the per-step firing probability AUX can reach at
// build=1.0, so AUX stays a fill texture rather than a wall of hits even
// at the top of a fill.
const auxDensityCap = 0.6

// auxMask implements the AUX voice rule supplemented in SPEC_FULL.md §D:
// AUX shares shimmer's eligibility mask, is silent outside the build/fill
// zones or when build is zero, and otherwise fires on eligible steps with
// probability proportional to build.
func auxMask(n int, budget pattern.BarBudget, anchor, shimmer pattern.StepMask, w pattern.WeightVec, build float32, inBuildOrFillZone bool, seed uint32) pattern.StepMask {
	var mask pattern.StepMask
	if !inBuildOrFillZone || build <= 0 || n <= 0 {
		return mask
	}
	prob := build * auxDensityCap
	for i := 0; i < n; i++ {
		if !budget.Eligibility.Test(i) {
			continue
		}
		if anchor.Test(i) || shimmer.Test(i) {
			continue
		}
		if HashToFloat(seed, saltAuxDensityBase+uint32(i)) < prob {
			mask.Set(i)
		}
	}
	return mask
}
