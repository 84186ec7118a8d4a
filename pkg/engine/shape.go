package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// shapeCandidates holds the three raw weight vectors the blend draws from
// (spec.md §4.3): stable (humanized euclidean), syncopated (anticipation-
// biased), and wild (high-variance chaos).
type shapeCandidates struct {
	stable     pattern.WeightVec
	syncopated pattern.WeightVec
	wild       pattern.WeightVec
}

// buildShapeCandidates computes all three candidate vectors for a bar of n
// steps using the local (sub-seeded) seed and energy.
func buildShapeCandidates(n int, seed uint32, energy float32) shapeCandidates {
	var c shapeCandidates
	stableNominalK := n / 4
	if stableNominalK < 1 {
		stableNominalK = 1
	}
	stableMask := euclideanMask(n, stableNominalK, int(seed%uint32(n)))

	for i := 0; i < n; i++ {
		base := metricStrength(i, n)

		// Stable: euclidean-favored positions get the metric weight as-is;
		// others are softened toward the floor, retaining the hierarchy.
		stableW := base
		if !stableMask.Test(i) {
			stableW *= 0.5
		}
		t := base // position strength proxy: strong metric position -> less humanization
		noise := (HashToFloat(seed, saltHumanizeBase+uint32(i)) - 0.5) * 0.05 * (1 - t)
		c.stable[i] = stableW + noise

		// Syncopated: suppress strong beats, boost anticipations (the step
		// immediately before a strong beat) and weak offbeats. Beat-1 is
		// suppressed but protected to a floor that rises with energy.
		syncW := 1.0 - base*0.6
		if isAnticipation(i, n) {
			syncW += 0.35
		}
		if base < 0.5 {
			syncW += 0.15
		}
		if i == 0 {
			floor := 0.50 + 0.20*energy
			if syncW < floor {
				syncW = floor
			}
		}
		c.syncopated[i] = syncW

		// Wild: weighted random with high variance and seed-based chaos
		// injected as a multiplicative perturbation of up to +-15%.
		u := HashToFloat(seed, saltWildChaosBase+uint32(i))
		chaos := 1.0 + (u-0.5)*0.30
		c.wild[i] = (0.3 + 0.7*u) * chaos
	}

	c.stable.Clamp(n)
	c.syncopated.Clamp(n)
	c.wild.Clamp(n)
	return c
}

// isAnticipation reports whether step i is the step immediately preceding
// a bar downbeat or half-bar (an "anticipation" in spec.md §4.3).
func isAnticipation(i, n int) bool {
	if n <= 0 {
		return false
	}
	next := (i + 1) % n
	return isDownbeat(next, n) || isBackbeat(next, n)
}

// blendShape applies the 7-zone SHAPE crossfade of spec.md §4.3 and returns
// the resulting weight vector, already floor-clamped to [0.05, 1.0].
func blendShape(n int, shape float32, c shapeCandidates) pattern.WeightVec {
	var out pattern.WeightVec
	switch {
	case shape < 0.28:
		t := shape / 0.28
		for i := 0; i < n; i++ {
			// Humanization fades out as SHAPE rises toward the first
			// crossfade, per spec.md's "scaled by (1 - shape/0.28)" note;
			// the stable candidate already has the noise baked in, so we
			// interpolate toward the un-noised metric weight instead.
			plain := metricStrength(i, n)
			out[i] = lerp(c.stable[i], plain, t)
		}
	case shape < 0.32:
		t := (shape - 0.28) / 0.04
		lerpVec(&out, n, c.stable, c.syncopated, t)
	case shape < 0.48:
		t := (shape - 0.32) / 0.16
		lerpVec(&out, n, c.stable, c.syncopated, t)
	case shape < 0.52:
		for i := 0; i < n; i++ {
			out[i] = c.syncopated[i]
		}
	case shape < 0.68:
		t := (shape - 0.52) / 0.16
		lerpVec(&out, n, c.syncopated, c.wild, t)
	case shape < 0.72:
		t := (shape - 0.68) / 0.04
		lerpVec(&out, n, c.syncopated, c.wild, t)
	default:
		for i := 0; i < n; i++ {
			out[i] = c.wild[i]
		}
	}
	out.Clamp(n)
	return out
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpVec(out *pattern.WeightVec, n int, a, b pattern.WeightVec, t float32) {
	for i := 0; i < n; i++ {
		out[i] = lerp(a[i], b[i], t)
	}
}
