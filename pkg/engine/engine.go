// Package engine implements the DuoPulse pattern-generation core: the
// deterministic hash/metric/shape/axis/budget/selection/complement/guard
// pipeline that turns a Params snapshot into per-bar voice masks, and the
// per-step timing stack that turns those masks into TriggerEvents.
package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// Callbacks mirrors the teacher's PlayerCallbacks: optional hooks the
// engine invokes as it advances. All are optional; a nil callback is
// simply skipped.
type Callbacks struct {
	OnTrigger func(ev pattern.TriggerEvent)
	OnBar     func(bar int)
	OnPhrase  func()
}

// EngineState is the read-only snapshot returned by SnapshotState (§6):
// current bar masks, phrase position, and the bar's per-step weight
// memory (Bar.BaseVelocity).
type EngineState struct {
	SessionID  uuid.UUID
	Params     pattern.Params
	Phrase     pattern.PhrasePos
	Bar        pattern.BarResult
	DriftState pattern.DriftState
	StepInBar  int
}

// Engine is the single-threaded pattern generator of spec.md §2 and §5.
// Its per-bar state lives in fixed-size arrays sized by MaxPatternSteps
// (BarResult). Bar generation is not allocation-free: every new bar
// allocates small temporary slices and maps (gap lists, candidate lists,
// placement sets) inside the pipeline stages.
type Engine struct {
	mu sync.Mutex

	sessionID uuid.UUID

	sampleRate     int32
	samplesPerStep int32

	params        pattern.Params
	pendingParams pattern.Params
	hasPending    bool

	pendingReseed bool
	pendingSeed   uint32

	drift pattern.DriftState

	stepInBar    int
	barIndex     int
	stepInPhrase int

	bar pattern.BarResult

	Callbacks Callbacks
}

// patternSteps converts a PatternLength into its plain step count.
func patternSteps(pl pattern.PatternLength) int {
	return int(pl)
}

// New constructs an Engine with the given initial Params and sample rate
// and generates its first bar. samplesPerStep is the
// caller-computed step period (derived from tempo by the caller, which
// owns the clock per §6); the engine only ever converts milliseconds to
// samples, it never derives tempo itself.
func New(initial pattern.Params, sampleRate, samplesPerStep int32) *Engine {
	p := initial.Normalize()
	e := &Engine{
		sessionID:      uuid.New(),
		sampleRate:     sampleRate,
		samplesPerStep: samplesPerStep,
		params:         p,
		drift: pattern.DriftState{
			PatternSeed: p.Seed,
			PhraseSeed:  Hash(p.Seed, saltPhraseRotate),
		},
	}
	e.generateBar()
	return e
}

// UpdateParams stages params for application at the next bar boundary
// (spec.md §5, §6).
func (e *Engine) UpdateParams(p pattern.Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingParams = p.Normalize()
	e.hasPending = true
}

// Reseed schedules a pattern_seed rotation at the next bar boundary
// (spec.md §6, §9).
func (e *Engine) Reseed(newSeed uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingReseed = true
	e.pendingSeed = newSeed
}

// Reset sets position to step 0 of bar 0 of the phrase, flushing pending
// per-step state while preserving seeds (spec.md §6).
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stepInBar = 0
	e.barIndex = 0
	e.stepInPhrase = 0
	e.generateBar()
}

// AdvanceStep consumes one step tick: generating the next bar when the
// current one is exhausted, then applying the timing stack and emitting
// any trigger due in this step slot (spec.md §6).
func (e *Engine) AdvanceStep() {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := patternSteps(e.params.PatternLen)
	if e.stepInBar >= n {
		e.stepInBar = 0
		e.barIndex++
		e.applyPendingAtBoundary(n)
		e.generateBar()
		if e.Callbacks.OnBar != nil {
			e.Callbacks.OnBar(e.barIndex)
		}
	}

	pos := phrasePosition(e.stepInPhrase, n)
	e.dispatchStep(e.stepInBar, n, pos)

	e.stepInBar++
	e.stepInPhrase++
}

// applyPendingAtBoundary applies staged params and reseed requests, and
// rotates phrase_seed if this boundary is a phrase boundary. Called only
// at a bar boundary, per the ordering guarantees of §5.
func (e *Engine) applyPendingAtBoundary(n int) {
	pos := phrasePosition(e.stepInPhrase, n)
	if isPhraseBoundary(pos) {
		rotatePhraseSeed(&e.drift)
		if e.Callbacks.OnPhrase != nil {
			e.Callbacks.OnPhrase()
		}
	}
	if e.hasPending {
		e.params = e.pendingParams
		e.hasPending = false
	}
	if e.pendingReseed {
		reseedPattern(&e.drift, e.pendingSeed)
		e.pendingReseed = false
	}
}

// dispatchStep applies the per-step timing stack to step and emits a
// trigger for each voice set in the current bar's masks at that step
// (spec.md §4.10).
func (e *Engine) dispatchStep(step, n int, pos pattern.PhrasePos) {
	p := e.params
	z := pattern.ZoneOf(p.Energy)

	fire := func(voice pattern.Voice, mask pattern.StepMask, seed uint32) {
		if !mask.Test(step) {
			return
		}
		vel := velocityShape(step, n, pos, p.Accent, p.Build)
		offset := swingOffsetSamples(step, p.Swing, e.samplesPerStep)
		offset += microJitterSamples(step, p.Flavor, z, seed, e.sampleRate)
		ev := pattern.TriggerEvent{Voice: voice, Velocity: vel, SubTickOffsetSamples: offset}
		if e.Callbacks.OnTrigger != nil {
			e.Callbacks.OnTrigger(ev)
		}
	}

	anchorSeed := anchorSeedFor(step, n, &e.drift, p.Drift)
	shimmerSeed := shimmerSeedFor(step, n, &e.drift, p.Drift)
	fire(pattern.Anchor, e.bar.AnchorMask, anchorSeed)
	fire(pattern.Shimmer, e.bar.ShimmerMask, shimmerSeed)
	fire(pattern.Aux, e.bar.AuxMask, shimmerSeed)
}

// SnapshotState returns a read-only copy of the engine's current state
// for debug/visualization (spec.md §6).
func (e *Engine) SnapshotState() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := patternSteps(e.params.PatternLen)
	return EngineState{
		SessionID:  e.sessionID,
		Params:     e.params,
		Phrase:     phrasePosition(e.stepInPhrase, n),
		Bar:        e.bar,
		DriftState: e.drift,
		StepInBar:  e.stepInBar,
	}
}

// halfResult bundles one half-bar (or, for n<=32, the whole bar) pipeline
// output so generateBar can assemble or concatenate it without any
// caller reaching back into e.bar mid-computation.
type halfResult struct {
	anchor, shimmer, aux pattern.StepMask
	velocity             pattern.WeightVec
	displacement         [pattern.MaxPatternSteps]int8
}

// generateBar runs the full per-bar pipeline: shape+axis ->
// eligibility+budget -> top-K selection (anchor) -> guard rails on the
// anchor -> voice-relation (shimmer, placed into the gaps of the guarded
// anchor) -> micro-displacement -> aux -> bar masks. For
// pattern_length=64 the pipeline runs twice over independent 32-step
// halves with sub-seeds, per SPEC_FULL.md §E.6, and the two masks are
// concatenated.
func (e *Engine) generateBar() {
	p := e.params
	n := patternSteps(p.PatternLen)
	pos := phrasePosition(e.stepInPhrase, n)
	inBuildOrFill := pos.IsBuildZone || pos.IsFillZone

	if n <= 32 {
		r := e.generateHalf(n, p.Seed, p, inBuildOrFill)
		e.bar = pattern.BarResult{
			AnchorMask:   r.anchor,
			ShimmerMask:  r.shimmer,
			AuxMask:      r.aux,
			BaseVelocity: r.velocity,
			Displacement: r.displacement,
			PatternLen:   n,
		}
		return
	}

	half := n / 2
	r0 := e.generateHalf(half, p.Seed, p, inBuildOrFill)
	r1 := e.generateHalf(half, p.Seed^brokenModeSeedXOR, p, inBuildOrFill)

	var result pattern.BarResult
	result.AnchorMask = r0.anchor | (r1.anchor << uint(half))
	result.ShimmerMask = r0.shimmer | (r1.shimmer << uint(half))
	result.AuxMask = r0.aux | (r1.aux << uint(half))
	result.PatternLen = n
	for i := 0; i < half; i++ {
		result.BaseVelocity[i] = r0.velocity[i]
		result.BaseVelocity[half+i] = r1.velocity[i]
		result.Displacement[i] = r0.displacement[i]
		result.Displacement[half+i] = r1.displacement[i]
	}
	e.bar = result
}

// generateHalf runs the full bar-generation pipeline over a single
// n-step bar (or half-bar) with a local seed, returning its voice masks
// and per-step scratch with local step indices 0..n-1.
func (e *Engine) generateHalf(n int, seed uint32, p pattern.Params, inBuildOrFillZone bool) halfResult {
	z := pattern.ZoneOf(p.Energy)

	cands := buildShapeCandidates(n, seed, p.Energy)
	w := blendShape(n, p.Shape, cands)
	applyAxisX(&w, n, p.AxisX)
	applyAxisY(&w, n, p.AxisY)
	applyBrokenMode(&w, n, p.Shape, p.AxisX, seed^brokenModeSeedXOR)
	w.Clamp(n)

	budget := computeBudget(n, w, p.Energy, p.Balance)
	spacing := spacingFor(z)

	anchor := selectTopK(n, budget.AnchorHits, w, budget.Eligibility, seed, spacing)
	anchor = softRepair(n, budget.AnchorHits, anchor, w, budget.Eligibility, seed, spacing)
	anchor = enforceBeat1(anchor, p.Shape, seed)
	anchor = capMaxGap(n, anchor, w, budget.Eligibility, p.Energy)

	var shimmer pattern.StepMask
	if budget.AnchorHits > 0 && budget.ShimmerHits > 0 {
		shimmer = complementPlace(n, budget.ShimmerHits, anchor, w, p.Drift, seed)
	}

	anchor, dispA := applyMicroDisplacementPass(n, anchor, p.Shape, seed)
	var dispS [pattern.MaxPatternSteps]int8
	if shimmer != 0 {
		shimmer, dispS = applyMicroDisplacementPass(n, shimmer, p.Shape, seed^1)
	}
	var displacement [pattern.MaxPatternSteps]int8
	for i := 0; i < n; i++ {
		if dispA[i] != 0 {
			displacement[i] = dispA[i]
		} else if dispS[i] != 0 {
			displacement[i] = dispS[i]
		}
	}

	aux := auxMask(n, budget, anchor, shimmer, w, p.Build, inBuildOrFillZone, seed)

	return halfResult{
		anchor:       anchor,
		shimmer:      shimmer,
		aux:          aux,
		velocity:     w,
		displacement: displacement,
	}
}
