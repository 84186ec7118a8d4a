package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// euclideanMask distributes k hits as evenly as possible across n steps
// using Bjorklund's algorithm, then rotates the result by r steps
// (spec.md §2.3, §4.3's "stable" generator). Returns the all-clear mask
// when k<=0 and the all-set mask when k>=n.
func euclideanMask(n, k, r int) pattern.StepMask {
	if n <= 0 {
		return 0
	}
	if k <= 0 {
		return 0
	}
	if k >= n {
		var m pattern.StepMask
		for i := 0; i < n; i++ {
			m.Set(i)
		}
		return m
	}

	// Bjorklund's algorithm: start with k groups of [1] and n-k groups of
	// [0], then repeatedly fold the smaller set of groups onto the tail of
	// the larger set until at most one group remains that isn't a clean
	// multiple.
	groups := make([][]int, 0, n)
	for i := 0; i < k; i++ {
		groups = append(groups, []int{1})
	}
	remainder := make([][]int, 0, n-k)
	for i := 0; i < n-k; i++ {
		remainder = append(remainder, []int{0})
	}

	for len(remainder) > 1 {
		take := len(groups)
		if len(remainder) < take {
			take = len(remainder)
		}
		var newGroups [][]int
		for i := 0; i < take; i++ {
			newGroups = append(newGroups, append(append([]int{}, groups[i]...), remainder[i]...))
		}
		var newRemainder [][]int
		if len(groups) > take {
			newRemainder = append(newRemainder, groups[take:]...)
		}
		if len(remainder) > take {
			newRemainder = append(newRemainder, remainder[take:]...)
		}
		groups, remainder = newGroups, newRemainder
		if len(groups) <= 1 {
			break
		}
	}

	sequence := make([]int, 0, n)
	for _, g := range groups {
		sequence = append(sequence, g...)
	}
	for _, g := range remainder {
		sequence = append(sequence, g...)
	}

	var mask pattern.StepMask
	for i, v := range sequence {
		if v == 1 {
			step := ((i+r)%n + n) % n
			mask.Set(step)
		}
	}
	return mask
}
