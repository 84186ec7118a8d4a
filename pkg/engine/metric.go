package engine

// metricStrength returns the metric-hierarchy base weight for step within a
// bar of n steps (spec.md §4.2): bar downbeats 1.0, half-bar 0.85, quarter
// 0.7, eighth off-beat 0.4, sixteenth 0.2. The classification is derived
// purely from step modulo n so it needs no per-length hand tuning: a step is
// promoted to a tier only when n evenly divides into that many parts and
// step lands exactly on one of them.
func metricStrength(step, n int) float32 {
	if n <= 0 {
		return 0.2
	}
	step = ((step % n) + n) % n
	if step == 0 {
		return 1.0
	}
	if n%2 == 0 && step == n/2 {
		return 0.85
	}
	if n%4 == 0 && step%(n/4) == 0 {
		return 0.7
	}
	if n%8 == 0 && step%(n/8) == 0 {
		return 0.4
	}
	return 0.2
}

// stability is the per-step drift-manager stability sigma (spec.md §4.9).
// It is defined over the same metric hierarchy as metricStrength and in
// spec.md the two tables are numerically identical, so stability simply
// reuses metricStrength.
func stability(step, n int) float32 {
	return metricStrength(step, n)
}

// isDownbeat reports whether step is a bar downbeat within a bar of n
// steps — used by beat-1 enforcement and the accent-position bump in the
// timing stack.
func isDownbeat(step, n int) bool {
	if n <= 0 {
		return step == 0
	}
	return ((step%n)+n)%n == 0
}

// isBackbeat reports whether step is the bar's backbeat (the half-bar
// position), used by the accent-position bump in the timing stack
// (spec.md §4.10).
func isBackbeat(step, n int) bool {
	if n <= 0 || n%2 != 0 {
		return false
	}
	return ((step%n)+n)%n == n/2
}
