package engine

import (
	"math"
	"sort"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// gumbelScore computes log(w) + g, the per-step Gumbel-perturbed score of
// spec.md §4.6, where g = -log(-log(u)) and u = HashToFloat(seed, i).
func gumbelScore(w float32, seed uint32, step int) float64 {
	u := float64(HashToFloat(seed, uint32(step)))
	// u is drawn from [0,1); guard the two logs against 0 and 1.
	if u <= 0 {
		u = 1e-9
	}
	if u >= 1 {
		u = 1 - 1e-9
	}
	g := -math.Log(-math.Log(u))
	return math.Log(float64(w)) + g
}

// selectTopK performs weighted top-k selection without replacement, honoring
// a minimum spacing constraint that wraps around the bar, relaxing spacing
// by one whenever it blocks every remaining eligible candidate
// (spec.md §4.6). Selection is deterministic: ties broken by ascending step
// index, scores computed once up front.
func selectTopK(n, k int, w pattern.WeightVec, elig pattern.StepMask, seed uint32, spacing int) pattern.StepMask {
	var result pattern.StepMask
	if n <= 0 || k <= 0 {
		return result
	}

	type scored struct {
		step  int
		score float64
	}
	candidates := make([]scored, 0, n)
	for i := 0; i < n; i++ {
		if !elig.Test(i) {
			continue
		}
		candidates = append(candidates, scored{i, gumbelScore(w[i], seed, i)})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].step < candidates[b].step
	})

	chosen := make([]int, 0, k)
	d := spacing
	for d >= 1 {
		chosen = chosen[:0]
		for _, c := range candidates {
			if len(chosen) >= k {
				break
			}
			if spacingOK(c.step, chosen, n, d) {
				chosen = append(chosen, c.step)
			}
		}
		if len(chosen) >= k || len(candidates) < k {
			break
		}
		d--
	}

	for _, s := range chosen {
		result.Set(s)
	}
	return result
}

// spacingOK reports whether step maintains at least d distance (wrapping)
// from every already-chosen step.
func spacingOK(step int, chosen []int, n, d int) bool {
	for _, c := range chosen {
		dist := step - c
		if dist < 0 {
			dist = -dist
		}
		wrapDist := n - dist
		if dist < wrapDist {
			if dist < d {
				return false
			}
		} else {
			if wrapDist < d {
				return false
			}
		}
	}
	return true
}
