package monitor

import "github.com/ebitengine/oto/v3"

// RealtimeMonitor owns the oto playback context and player. Unlike the
// teacher's RealtimeOutput, it carries no stream-wrapper struct or
// generation logic of its own: ClickSynth already implements io.Reader
// (see click.go), so oto pulls PCM frames straight from it.
type RealtimeMonitor struct {
	otoCtx    *oto.Context
	otoPlayer *oto.Player
}

// NewRealtimeMonitor opens an oto playback context at sampleRate and
// starts pulling frames from synth immediately.
func NewRealtimeMonitor(synth *ClickSynth, sampleRate int32) (*RealtimeMonitor, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	otoPlayer := otoCtx.NewPlayer(synth)
	otoPlayer.SetBufferSize(int(sampleRate) / 10)
	otoPlayer.Play()

	return &RealtimeMonitor{otoCtx: otoCtx, otoPlayer: otoPlayer}, nil
}

// Close stops playback.
func (m *RealtimeMonitor) Close() {
	if m.otoPlayer != nil {
		m.otoPlayer.Close()
	}
}
