// Package monitor turns the engine's TriggerEvent stream into something a
// human can audition: a short synthesized click per voice played through
// oto in real time, or rendered to a WAV file for offline review. Neither
// path is part of the core per spec.md §6 ("external collaborators"); the
// core only ever produces TriggerEvents, it never knows monitor exists.
package monitor

import (
	"math"
	"sync"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// voiceTone is the click frequency and decay used to synthesize an audible
// hit for each voice, giving anchor/shimmer/aux distinct timbres the way
// the teacher's Oscillator gave each instrument slot its own waveform.
type voiceTone struct {
	freqHz   float64
	decaySec float64
}

func toneFor(v pattern.Voice) voiceTone {
	switch v {
	case pattern.Anchor:
		return voiceTone{freqHz: 110, decaySec: 0.09}
	case pattern.Shimmer:
		return voiceTone{freqHz: 440, decaySec: 0.04}
	default: // Aux
		return voiceTone{freqHz: 880, decaySec: 0.02}
	}
}

// activeClick is one in-flight synthesized hit: a decaying sine starting at
// a given sample position, mirroring the teacher's ChannelState envelope
// bookkeeping (pkg/audio/oscillator.go) but reduced to the single
// exponential-decay shape a click needs.
type activeClick struct {
	tone       voiceTone
	velocity   float32
	startFrame int64
}

// ClickSynth accumulates pending TriggerEvents and renders them into a
// float64 sample stream on demand, the same GenerateSamples-on-pull shape
// as the teacher's Player.
type ClickSynth struct {
	mu         sync.Mutex
	sampleRate int32
	frame      int64
	active     []activeClick
	pcmScratch []float64
}

// NewClickSynth constructs a synth for the given sample rate.
func NewClickSynth(sampleRate int32) *ClickSynth {
	return &ClickSynth{sampleRate: sampleRate}
}

// HandleTrigger is suitable as an engine.Callbacks.OnTrigger hook: it
// schedules a new click at the current frame position plus the event's
// sub-tick offset, clamped to never schedule before "now".
func (c *ClickSynth) HandleTrigger(ev pattern.TriggerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := c.frame + int64(ev.SubTickOffsetSamples)
	if start < c.frame {
		start = c.frame
	}
	c.active = append(c.active, activeClick{
		tone:       toneFor(ev.Voice),
		velocity:   ev.Velocity,
		startFrame: start,
	})
}

// GenerateSamples fills buf with the next len(buf) frames of mixed click
// output, mirroring Player.GenerateSamples's pull-based generation.
func (c *ClickSynth) GenerateSamples(buf []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range buf {
		buf[i] = 0
	}

	live := c.active[:0]
	for _, click := range c.active {
		decaySamples := click.tone.decaySec * float64(c.sampleRate)
		for i := range buf {
			frame := c.frame + int64(i)
			if frame < click.startFrame {
				continue
			}
			age := float64(frame - click.startFrame)
			if age > decaySamples {
				continue
			}
			env := math.Exp(-3 * age / decaySamples)
			phase := 2 * math.Pi * click.tone.freqHz * age / float64(c.sampleRate)
			buf[i] += float64(click.velocity) * env * math.Sin(phase)
		}
		if float64(c.frame+int64(len(buf))-click.startFrame) < decaySamples {
			live = append(live, click)
		}
	}
	c.active = live

	c.frame += int64(len(buf))
}

// Read implements io.Reader directly on ClickSynth, so oto can pull PCM
// frames from the synth with no intermediate stream wrapper: it renders
// one GenerateSamples batch into a reusable scratch buffer and encodes it
// straight through writeInt16LE.
func (c *ClickSynth) Read(buf []byte) (int, error) {
	samples := len(buf) / 2
	if cap(c.pcmScratch) < samples {
		c.pcmScratch = make([]float64, samples)
	}
	scratch := c.pcmScratch[:samples]
	c.GenerateSamples(scratch)

	for i, s := range scratch {
		writeInt16LE(buf, i*2, s)
	}
	return samples * 2, nil
}
