package engine

import "github.com/duopulse/duopulse/pkg/pattern"

// phraseLengthBars maps pattern length to the bar count that keeps total
// phrase steps near 128 (spec.md §4.11). 24 is the deliberate exception
// (5*24=120, not 128) the spec accepts without reconciliation (§9).
func phraseLengthBars(patternLen int) int {
	switch patternLen {
	case 16:
		return 8
	case 24:
		return 5
	case 32:
		return 4
	case 64:
		return 2
	default:
		return 8
	}
}

// phrasePosition computes the PhrasePos for a given absolute step count
// since the last phrase boundary (spec.md §4.11). stepInPhrase is the
// running count of steps since the phrase began; barInPhrase and
// stepInPhrase are both derived from it and patternLen.
func phrasePosition(stepInPhrase, patternLen int) pattern.PhrasePos {
	bars := phraseLengthBars(patternLen)
	totalSteps := bars * patternLen
	if totalSteps <= 0 {
		totalSteps = 1
	}
	s := ((stepInPhrase % totalSteps) + totalSteps) % totalSteps

	barIdx := s / patternLen
	stepIdx := s % patternLen
	progress := float32(s) / float32(totalSteps)

	return pattern.PhrasePos{
		StepInPhrase: s,
		BarInPhrase:  barIdx,
		Progress:     progress,
		IsDownbeat:   stepIdx == 0,
		IsBuildZone:  progress >= 0.60 && progress < 0.875,
		IsFillZone:   progress >= 0.875,
	}
}

// isPhraseBoundary reports whether stepInPhrase lands on step 0 of bar 0
// of the phrase — the moment the drift manager rotates phrase_seed
// (spec.md §4.9, §4.11).
func isPhraseBoundary(pos pattern.PhrasePos) bool {
	return pos.BarInPhrase == 0 && pos.StepInPhrase == 0
}

// localZoneProgress returns the step's progress through its own
// build/fill zone, in [0,1], used by the velocity shaping coefficients of
// spec.md §4.10 ("local_progress").
func localZoneProgress(progress float32) float32 {
	switch {
	case progress >= 0.875:
		denom := float32(1.0 - 0.875)
		v := (progress - 0.875) / denom
		return clampUnit(v)
	case progress >= 0.60:
		denom := float32(0.875 - 0.60)
		v := (progress - 0.60) / denom
		return clampUnit(v)
	default:
		return 0
	}
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
