package engine

import (
	"sort"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// softRepair tops up mask with the next-highest-scoring eligible steps
// until it holds exactly target hits, without violating spacing d
// (spec.md §4.8.1). It is idempotent: if mask already meets or exceeds
// target it is returned unchanged.
func softRepair(n, target int, mask pattern.StepMask, w pattern.WeightVec, elig pattern.StepMask, seed uint32, d int) pattern.StepMask {
	if n <= 0 || target <= 0 {
		return mask
	}
	have := mask.Popcount(n)
	if have >= target {
		return mask
	}

	candidates := make([]scoredStep, 0, n)
	for i := 0; i < n; i++ {
		if !elig.Test(i) || mask.Test(i) {
			continue
		}
		candidates = append(candidates, scoredStep{i, gumbelScore(w[i], seed, i)})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].step < candidates[b].step
	})

	chosen := collectStepsFromMask(n, mask)
	for dd := d; dd >= 1 && have < target; dd-- {
		for _, c := range candidates {
			if have >= target {
				break
			}
			if mask.Test(c.step) {
				continue
			}
			if !spacingOK(c.step, chosen, n, dd) {
				continue
			}
			mask.Set(c.step)
			chosen = append(chosen, c.step)
			have++
		}
	}
	return mask
}

type scoredStep struct {
	step  int
	score float64
}

func collectStepsFromMask(n int, mask pattern.StepMask) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if mask.Test(i) {
			out = append(out, i)
		}
	}
	return out
}

// enforceBeat1 implements spec.md §4.8.2: step 0 must be set in anchor
// whenever shape < 0.70. In the wild zone [0.70, 1.00] a seed-based
// probabilistic skip applies instead of unconditional enforcement, with
// skip probability ramping from 0% to 40% across the zone.
func enforceBeat1(mask pattern.StepMask, shape float32, seed uint32) pattern.StepMask {
	if shape < 0.70 {
		mask.Set(0)
		return mask
	}
	skipProb := ((shape - 0.70) / 0.30) * 0.40
	if HashToFloat(seed, saltBeat1Skip) < skipProb {
		return mask
	}
	mask.Set(0)
	return mask
}

// capMaxGap implements spec.md §4.8.3: when energy is at least GROOVE, no
// run of consecutive empty anchor steps may exceed 4. Violating gaps are
// repaired by inserting the highest-weight eligible step nearest the
// middle of the gap.
func capMaxGap(n int, mask pattern.StepMask, w pattern.WeightVec, elig pattern.StepMask, energy float32) pattern.StepMask {
	if n <= 0 || energy < 0.20 {
		return mask
	}
	const maxGap = 4

	for pass := 0; pass < n; pass++ {
		gaps := findGaps(n, mask)
		violated := false
		for _, g := range gaps {
			if g.length <= maxGap {
				continue
			}
			violated = true
			best := -1
			bestDist := 0
			var bestW float32 = -1
			for i := 0; i < g.length; i++ {
				step := (g.start + i) % n
				if !elig.Test(step) {
					continue
				}
				dist := i - g.length/2
				if dist < 0 {
					dist = -dist
				}
				// Prefer higher weight; among ties prefer closer to the
				// gap midpoint.
				if w[step] > bestW || (w[step] == bestW && best != -1 && dist < bestDist) {
					bestW = w[step]
					best = step
					bestDist = dist
				}
			}
			if best == -1 {
				best = (g.start + g.length/2) % n
			}
			mask.Set(best)
		}
		if !violated {
			break
		}
	}
	return mask
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
