package engine

import (
	"math"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// zoneHitRange holds the anchor hit-count bounds and spacing floor for a
// Zone (spec.md §4.5).
type zoneHitRange struct {
	anchorMin, anchorMax int
	spacingMin           int
	eligibilityFloor     float32
}

// zoneTable is indexed by pattern.Zone. Eligibility floors are chosen so
// that higher-energy zones admit progressively finer metric subdivisions,
// per spec.md §4.5 ("higher energy admits finer subdivisions"): MINIMAL
// admits only downbeat/half-bar, GROOVE adds quarters and eighths, BUILD
// adds sixteenths, PEAK admits everything (down to the 0.05 weight floor).
var zoneTable = [...]zoneHitRange{
	pattern.Minimal: {anchorMin: 1, anchorMax: 2, spacingMin: 4, eligibilityFloor: 0.75},
	pattern.Groove:  {anchorMin: 3, anchorMax: 4, spacingMin: 2, eligibilityFloor: 0.35},
	pattern.Build:   {anchorMin: 4, anchorMax: 6, spacingMin: 1, eligibilityFloor: 0.15},
	pattern.Peak:    {anchorMin: 6, anchorMax: 10, spacingMin: 1, eligibilityFloor: 0.0},
}

// targetAnchorHits computes the energy-interpolated anchor hit target for
// a zone (spec.md §4.5): lerp(min, max, (energy-lo)/(hi-lo)), rounded.
func targetAnchorHits(energy float32, z pattern.Zone) int {
	r := zoneTable[z]
	lo, hi := pattern.ZoneBounds(z)
	t := float32(0)
	if hi > lo {
		t = (energy - lo) / (hi - lo)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	v := lerp(float32(r.anchorMin), float32(r.anchorMax), t)
	return int(math.Round(float64(v)))
}

// targetShimmerHits computes the shimmer hit target (spec.md §4.5):
// round(anchorTarget * 1.5 * balance). Zero balance yields zero shimmer,
// supporting "silent shimmer".
func targetShimmerHits(anchorTarget int, balance float32) int {
	if anchorTarget <= 0 || balance <= 0 {
		return 0
	}
	v := float64(anchorTarget) * 1.5 * float64(balance)
	return int(math.Round(v))
}

// eligibilityMask marks steps whose post axis-bias weight exceeds the
// zone's floor as eligible for selection (spec.md §4.5). No step may be
// selected outside this mask.
func eligibilityMask(n int, w pattern.WeightVec, z pattern.Zone) pattern.StepMask {
	floor := zoneTable[z].eligibilityFloor
	var m pattern.StepMask
	for i := 0; i < n; i++ {
		if w[i] > floor {
			m.Set(i)
		}
	}
	return m
}

// spacingFor returns the zone's minimum inter-hit spacing (spec.md §4.5,
// §4.6).
func spacingFor(z pattern.Zone) int {
	return zoneTable[z].spacingMin
}

// computeBudget assembles the full BarBudget for one voice triad given a
// post-bias weight vector. Per spec.md §4.5's invariant, a voice whose
// requested target is zero always yields an empty mask downstream,
// regardless of eligibility popcount; computeBudget additionally clamps
// each target to the eligibility popcount so a request can never exceed
// what is actually selectable (the "Budget infeasible" policy of §7).
func computeBudget(n int, w pattern.WeightVec, energy, balance float32) pattern.BarBudget {
	z := zoneOf(energy)
	elig := eligibilityMask(n, w, z)
	popcount := elig.Popcount(n)

	anchor := targetAnchorHits(energy, z)
	if anchor > popcount {
		anchor = popcount
	}
	shimmer := targetShimmerHits(anchor, balance)
	if shimmer > popcount {
		shimmer = popcount
	}

	return pattern.BarBudget{
		AnchorHits:  anchor,
		ShimmerHits: shimmer,
		Eligibility: elig,
	}
}

// zoneOf is a small local alias kept so budget.go reads self-contained;
// it simply forwards to pattern.ZoneOf.
func zoneOf(energy float32) pattern.Zone {
	return pattern.ZoneOf(energy)
}
