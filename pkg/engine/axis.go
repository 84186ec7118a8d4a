package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// positionStrength maps a step's metric weight onto [-1, +1]: a strong
// downbeat maps to -1, the weakest sixteenth-tier step maps to +1
// (spec.md §4.4).
func positionStrength(step, n int) float32 {
	w := metricStrength(step, n)
	// w ranges [0.2, 1.0]; map 1.0 -> -1, 0.2 -> +1 linearly.
	return 1 - 2*(w-0.2)/(1.0-0.2)
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// applyAxisX applies the bipolar X axis (downbeat <-> offbeat emphasis) to
// w in place, over the first n steps (spec.md §4.4).
func applyAxisX(w *pattern.WeightVec, n int, axisX float32) {
	xb := 2*axisX - 1
	if xb == 0 {
		return
	}
	for i := 0; i < n; i++ {
		pos := positionStrength(i, n)
		if xb > 0 {
			if pos < 0 {
				w[i] += -xb * absf(pos) * 0.45
			} else if pos > 0 {
				w[i] += xb * pos * 0.60
			}
		} else {
			xa := -xb
			if pos < 0 {
				w[i] += xa * absf(pos) * 0.60
			} else if pos > 0 {
				w[i] += -xa * pos * 0.45
			}
		}
	}
}

// applyAxisY applies the bipolar Y axis (simplicity <-> intricacy) to w in
// place, over the first n steps (spec.md §4.4).
func applyAxisY(w *pattern.WeightVec, n int, axisY float32) {
	yb := 2*axisY - 1
	if yb == 0 {
		return
	}
	for i := 0; i < n; i++ {
		weak := metricStrength(i, n) < 0.5
		if yb >= 0 {
			if weak {
				w[i] += yb * 0.50
			} else {
				w[i] += yb * 0.15
			}
		} else {
			if weak {
				w[i] += yb * 0.50
			} else {
				w[i] += yb * -0.25
			}
		}
	}
}

// brokenDownbeats returns the fixed, ordered list of bar-downbeat step
// indices eligible for broken-mode suppression rolls. Within a single bar
// (or half-bar, for pattern_length=64) there is exactly one bar downbeat:
// step 0. The slice form keeps enumeration order fixed regardless of
// caller, per spec.md §4.4's determinism requirement.
func brokenDownbeats(n int) []int {
	if n <= 0 {
		return nil
	}
	return []int{0}
}

// applyBrokenMode implements the emergent "broken" sub-mode (spec.md §4.4):
// active when shape > 0.6 and axisX > 0.7, it independently rolls each
// bar-downbeat step and multiplies its weight by 0.25 on a hit.
// brokenModeSeed is seed^0xDEADBEEF per spec.md (the same XOR constant used
// to sub-seed the second half of long patterns).
func applyBrokenMode(w *pattern.WeightVec, n int, shape, axisX float32, brokenModeSeed uint32) {
	if !(shape > 0.6 && axisX > 0.7) {
		return
	}
	intensity := (shape - 0.6) * 2.5 * (axisX - 0.7) * 3.33
	if intensity > 1.0 {
		intensity = 1.0
	}
	if intensity < 0 {
		intensity = 0
	}
	threshold := 0.6 * intensity
	for _, step := range brokenDownbeats(n) {
		if HashToFloat(brokenModeSeed, uint32(step)) < threshold {
			w[step] *= 0.25
		}
	}
}
