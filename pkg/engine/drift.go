package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// Voice-specific drift coefficients (spec.md §4.9): shimmer drifts faster
// than anchor for the same DRIFT control value, so backbeats loosen
// before downbeats do.
const (
	kAnchorDrift  float32 = 0.7
	kShimmerDrift float32 = 1.3
)

// effectiveDrift clamps drift*k to [0,1] (spec.md §4.9).
func effectiveDrift(drift, k float32) float32 {
	v := drift * k
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// seedFor resolves the seed a given step's stochastic decisions should use
// for a given voice: pattern_seed when the step is stable enough relative
// to the voice's effective drift, phrase_seed otherwise (spec.md §4.9).
func seedFor(step, n int, drift *pattern.DriftState, rawDrift float32, k float32) uint32 {
	driftEff := effectiveDrift(rawDrift, k)
	if stability(step, n) > driftEff {
		return drift.PatternSeed
	}
	return drift.PhraseSeed
}

// anchorSeedFor and shimmerSeedFor are the two voice-specific
// instantiations of seedFor used by the bar pipeline.
func anchorSeedFor(step, n int, drift *pattern.DriftState, rawDrift float32) uint32 {
	return seedFor(step, n, drift, rawDrift, kAnchorDrift)
}

func shimmerSeedFor(step, n int, drift *pattern.DriftState, rawDrift float32) uint32 {
	return seedFor(step, n, drift, rawDrift, kShimmerDrift)
}

// rotatePhraseSeed derives the next phrase_seed from the current
// pattern_seed and phrase_seed at a phrase boundary (spec.md §4.9, §4.11).
// The derivation is a plain Hash call keyed on a dedicated salt so
// rotation is itself deterministic and never touches pattern_seed.
func rotatePhraseSeed(drift *pattern.DriftState) {
	drift.PhraseSeed = Hash(drift.PhraseSeed, saltPhraseRotate^drift.PatternSeed)
}

// reseedPattern rotates pattern_seed at an explicit reseed request
// (spec.md §6 reseed(), applied at the next bar boundary by the caller).
func reseedPattern(drift *pattern.DriftState, newSeed uint32) {
	drift.PatternSeed = newSeed
}
