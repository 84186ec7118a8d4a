package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// Zone jitter caps in milliseconds (spec.md §4.10): the ceiling on the
// micro-jitter offset at a given energy zone. The swing offset has no
// noise term and is not bounded by this cap.
func jitterCapMs(z pattern.Zone) float32 {
	switch z {
	case pattern.Minimal:
		return 0
	case pattern.Groove:
		return 3
	case pattern.Build:
		return 6
	default: // Peak
		return 12
	}
}

// swingFraction maps the swing control in [0,1] onto the documented
// [0.50, 0.66] skew range applied to odd-indexed (off-beat) steps
// (spec.md §4.10.1).
func swingFraction(swing float32) float32 {
	return 0.50 + swing*(0.66-0.50)
}

// msToSamples converts a millisecond offset to a sample count at the given
// sample rate.
func msToSamples(ms float32, sampleRate int32) int32 {
	return int32(ms * float32(sampleRate) / 1000.0)
}

// swingOffsetSamples returns the base swing delay applied to step, in
// samples, before any jitter: nonzero only for odd-indexed (off-beat)
// steps, proportional to samplesPerStep (spec.md §4.10.1).
func swingOffsetSamples(step int, swing float32, samplesPerStep int32) int32 {
	if step%2 == 0 {
		return 0
	}
	frac := swingFraction(swing) - 0.5
	return int32(float32(samplesPerStep) * frac)
}

// microJitterSamples returns a per-step random offset in
// [-cap, +cap] * flavor milliseconds, converted to samples (spec.md
// §4.10.2). The cap comes from the current zone.
func microJitterSamples(step int, flavor float32, z pattern.Zone, seed uint32, sampleRate int32) int32 {
	capMs := jitterCapMs(z)
	if capMs <= 0 || flavor <= 0 {
		return 0
	}
	u := HashToFloat(seed, saltMicroJitterBase+uint32(step))
	signed := (u*2 - 1) * capMs * flavor
	return msToSamples(signed, sampleRate)
}

// microDisplacement computes the step displacement of spec.md §4.10.3:
// active only for 0.30 <= shape < 0.70, applied to every set step other
// than step 0. Returns -1, 0, or +1; the caller is responsible for
// rejecting a displacement that would collide with an already-set step or
// with step 0.
func microDisplacement(step, n int, shape float32, seed uint32) int8 {
	if step == 0 || shape < 0.30 || shape >= 0.70 {
		return 0
	}
	prob := (shape - 0.30) / 0.40 * 0.25
	roll := HashToFloat(seed, saltDisplacementBase+uint32(step))
	if roll >= prob {
		return 0
	}
	dir := HashToFloat(seed, saltDisplacementBase+uint32(step)+1)
	switch {
	case dir < 0.33:
		return -1
	case dir > 0.66:
		return 1
	default:
		return 0
	}
}

// applyDisplacement resolves microDisplacement's raw -1/0/+1 vote into an
// actual mask mutation, skipping the move entirely if it would collide
// with an already-set step or with step 0 (spec.md §4.10.3). Reports
// whether the move was actually applied.
func applyDisplacement(n int, mask pattern.StepMask, step int, delta int8) (pattern.StepMask, bool) {
	if delta == 0 {
		return mask, false
	}
	target := ((step+int(delta))%n + n) % n
	if target == 0 || mask.Test(target) {
		return mask, false
	}
	mask.Clear(step)
	mask.Set(target)
	return mask, true
}

// applyMicroDisplacementPass runs microDisplacement over every step set in
// mask (evaluated against the original, pre-pass mask so one step's move
// cannot cascade into another's eligibility within the same bar) and
// returns the displaced mask together with the per-origin-step delta that
// was actually applied, for BarResult.Displacement (spec.md §3, §4.10.3).
func applyMicroDisplacementPass(n int, mask pattern.StepMask, shape float32, seed uint32) (pattern.StepMask, [pattern.MaxPatternSteps]int8) {
	var applied [pattern.MaxPatternSteps]int8
	original := mask
	result := mask
	for step := 0; step < n; step++ {
		if !original.Test(step) {
			continue
		}
		delta := microDisplacement(step, n, shape, seed)
		if delta == 0 {
			continue
		}
		var moved bool
		result, moved = applyDisplacement(n, result, step, delta)
		if moved {
			applied[step] = delta
		}
	}
	return result, applied
}

// velocityShape computes the final trigger velocity for a set step
// (spec.md §4.10.4): base 0.7, widened by accent at accent positions,
// boosted by the BUILD/FILL phrase-progress ramp, clamped to [0.20, 1.00].
func velocityShape(step, n int, pos pattern.PhrasePos, accent, build float32) float32 {
	v := float32(0.7)

	local := localZoneProgress(pos.Progress)
	switch {
	case pos.IsFillZone:
		v *= 1 + 0.50*build
		v += 0.20 * build
	case pos.IsBuildZone:
		v *= 1 + 0.35*build*local
		v += 0.15 * build * local
	}

	if isDownbeat(step, n) || isBackbeat(step, n) {
		v *= 1.0 + 0.5*accent
	}

	if v < 0.20 {
		v = 0.20
	}
	if v > 1.00 {
		v = 1.00
	}
	return v
}
