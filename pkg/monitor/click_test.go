package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func TestClickSynth_SilentWithNoTriggers(t *testing.T) {
	s := NewClickSynth(44100)
	buf := make([]float64, 256)
	s.GenerateSamples(buf)
	for _, v := range buf {
		assert.Equal(t, float64(0), v)
	}
}

func TestClickSynth_ProducesNonZeroAfterTrigger(t *testing.T) {
	s := NewClickSynth(44100)
	s.HandleTrigger(pattern.TriggerEvent{Voice: pattern.Anchor, Velocity: 0.8})

	buf := make([]float64, 256)
	s.GenerateSamples(buf)

	nonZero := false
	for _, v := range buf {
		if v != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}

func TestClickSynth_ClickDecaysToSilenceEventually(t *testing.T) {
	s := NewClickSynth(44100)
	s.HandleTrigger(pattern.TriggerEvent{Voice: pattern.Aux, Velocity: 1.0})

	// Aux decays in 20ms; after several buffers worth of frames it must be
	// fully retired from the active list.
	buf := make([]float64, 4096)
	for i := 0; i < 10; i++ {
		s.GenerateSamples(buf)
	}
	assert.Empty(t, s.active)
}
