package engine

import (
	"sort"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// gapRun is a maximal run of unset bits in a StepMask. The wraparound run
// (tail + head) is represented as a single gapRun when both ends are
// unset, per spec.md §4.7. start is always in [0, n); start+length may
// exceed n when the gap wraps, so callers reduce positions modulo n.
type gapRun struct {
	start, length int
}

// findGaps returns every gapRun in mask over a bar of n steps, in step
// order starting just after a set bit so the wraparound run is never split.
func findGaps(n int, mask pattern.StepMask) []gapRun {
	if n <= 0 {
		return nil
	}
	set := make([]bool, n)
	anySet := false
	for i := 0; i < n; i++ {
		set[i] = mask.Test(i)
		anySet = anySet || set[i]
	}
	if !anySet {
		return []gapRun{{start: 0, length: n}}
	}

	startIdx := 0
	for i := 0; i < n; i++ {
		if set[i] {
			startIdx = i
			break
		}
	}
	order := make([]int, n)
	for k := 0; k < n; k++ {
		order[k] = (startIdx + 1 + k) % n
	}

	var gaps []gapRun
	k := 0
	for k < n {
		if set[order[k]] {
			k++
			continue
		}
		start := order[k]
		length := 0
		for k < n && !set[order[k]] {
			length++
			k++
		}
		gaps = append(gaps, gapRun{start: start, length: length})
	}
	return gaps
}

// complementPlace fills T shimmer hits into the gaps of anchorMask using
// DRIFT to pick a placement strategy per gap (spec.md §4.7). shimmerWeight
// is the post axis-bias weight vector used both for the "highest weight"
// strategy and for the final reconciliation/fallback step. seed is the
// local (sub-seeded) seed for this bar/half.
func complementPlace(n, target int, anchorMask pattern.StepMask, shimmerWeight pattern.WeightVec, drift float32, seed uint32) pattern.StepMask {
	var result pattern.StepMask
	if n <= 0 || target <= 0 {
		return result
	}

	gaps := findGaps(n, anchorMask)
	totalLen := 0
	for _, g := range gaps {
		totalLen += g.length
	}
	if totalLen == 0 {
		return result
	}
	guardedL := totalLen
	if guardedL < 1 {
		guardedL = 1
	}

	type placement struct {
		step   int
		gapLen int
		weight float32
	}
	var placements []placement
	used := make(map[int]bool)

	for _, g := range gaps {
		share := roundf(float32(g.length) * float32(target) / float32(guardedL))
		if share < 1 {
			share = 1
		}
		if share > g.length {
			share = g.length
		}
		for _, step := range pickGapPositions(n, g, share, shimmerWeight, drift, seed) {
			if used[step] {
				continue
			}
			used[step] = true
			placements = append(placements, placement{step: step, gapLen: g.length, weight: shimmerWeight[step]})
		}
	}

	// Reconcile rounding drift against the exact target.
	if len(placements) > target {
		// Drop from the smallest gap first; within a gap, drop the
		// lowest-weighted placement first.
		sort.SliceStable(placements, func(a, b int) bool {
			if placements[a].gapLen != placements[b].gapLen {
				return placements[a].gapLen < placements[b].gapLen
			}
			return placements[a].weight < placements[b].weight
		})
		placements = placements[len(placements)-target:]
	} else if len(placements) < target {
		need := target - len(placements)
		var candidates []int
		for _, g := range gaps {
			for i := 0; i < g.length; i++ {
				step := (g.start + i) % n
				if !used[step] {
					candidates = append(candidates, step)
				}
			}
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			wa, wb := shimmerWeight[candidates[a]], shimmerWeight[candidates[b]]
			if wa != wb {
				return wa > wb
			}
			return candidates[a] < candidates[b]
		})
		for _, step := range candidates {
			if need <= 0 {
				break
			}
			if used[step] {
				continue
			}
			used[step] = true
			placements = append(placements, placement{step: step, weight: shimmerWeight[step]})
			need--
		}
	}

	for _, p := range placements {
		result.Set(p.step)
	}
	return result
}

// pickGapPositions chooses `share` distinct step indices inside gap g
// (reduced modulo n) according to the DRIFT-selected strategy of
// spec.md §4.7.
func pickGapPositions(n int, g gapRun, share int, w pattern.WeightVec, drift float32, seed uint32) []int {
	switch {
	case drift < 0.30:
		out := make([]int, 0, share)
		seen := make(map[int]bool, share)
		for j := 0; j < share; j++ {
			offset := ((j + 1) * g.length) / (share + 1)
			step := firstFree(n, g, offset, seen)
			seen[offsetOf(step, g, n)] = true
			out = append(out, step)
		}
		return out

	case drift < 0.70:
		type cand struct {
			offset int
			step   int
			weight float32
		}
		cands := make([]cand, g.length)
		for i := 0; i < g.length; i++ {
			step := (g.start + i) % n
			cands[i] = cand{offset: i, step: step, weight: w[step]}
		}
		sort.SliceStable(cands, func(a, b int) bool {
			if cands[a].weight != cands[b].weight {
				return cands[a].weight > cands[b].weight
			}
			return cands[a].step < cands[b].step
		})
		if share > len(cands) {
			share = len(cands)
		}
		out := make([]int, share)
		for i := 0; i < share; i++ {
			out[i] = cands[i].step
		}
		return out

	default:
		out := make([]int, 0, share)
		seen := make(map[int]bool, share)
		for j := 0; j < share; j++ {
			offset := int(Hash(seed, uint32(j))) % g.length
			if offset < 0 {
				offset += g.length
			}
			step := firstFree(n, g, offset, seen)
			seen[offsetOf(step, g, n)] = true
			out = append(out, step)
		}
		return out
	}
}

// offsetOf recovers a step's offset (0..g.length-1) within gap g.
func offsetOf(step int, g gapRun, n int) int {
	return ((step-g.start)%n + n) % n
}

// firstFree returns the step at the given gap-relative offset if free,
// otherwise scans forward (wrapping within the gap) for the first free
// offset.
func firstFree(n int, g gapRun, offset int, seen map[int]bool) int {
	for i := 0; i < g.length; i++ {
		o := (offset + i) % g.length
		step := (g.start + o) % n
		if !seen[o] {
			return step
		}
	}
	return (g.start + offset) % n
}

func roundf(f float32) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
