package monitor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/duopulse/duopulse/pkg/pattern"
)

func TestExportWAV_WritesRIFFHeaderAndExpectedByteCount(t *testing.T) {
	synth := NewClickSynth(8000)
	var steps int
	advance := func() {
		steps++
		if steps%4 == 0 {
			synth.HandleTrigger(pattern.TriggerEvent{Voice: pattern.Anchor, Velocity: 0.9})
		}
	}

	var buf bytes.Buffer
	err := ExportWAV(synth, 8000, 2000, advance, &buf, 1.0)
	assert.NoError(t, err)

	data := buf.Bytes()
	assert.True(t, len(data) >= 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "data", string(data[36:40]))

	wantDataBytes := 8000 * 2 // 1 second, 16-bit mono at 8kHz
	assert.Equal(t, 44+wantDataBytes, len(data))
	assert.Greater(t, steps, 0)
}
