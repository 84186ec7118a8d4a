// Command duopulse drives a DuoPulse engine from the CLI: flag-parsed
// performance controls or a named preset, an audible click monitor, and a
// read-only terminal visualizer, adapted from the teacher's cmd/tracker.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/duopulse/duopulse/pkg/engine"
	"github.com/duopulse/duopulse/pkg/monitor"
	"github.com/duopulse/duopulse/pkg/pattern"
	"github.com/duopulse/duopulse/pkg/visualizer"
)

const sampleRate int32 = 44100

func main() {
	energy := flag.Float64("energy", 0.5, "hit density / intensity, 0..1")
	shape := flag.Float64("shape", 0.0, "rhythmic feel, 0..1")
	axisX := flag.Float64("axisx", 0.5, "downbeat<->offbeat bias, 0..1")
	axisY := flag.Float64("axisy", 0.5, "simple<->intricate bias, 0..1")
	balance := flag.Float64("balance", 0.5, "anchor/shimmer weight balance, 0..1")
	drift := flag.Float64("drift", 0.0, "pattern-to-pattern variation, 0..1")
	accent := flag.Float64("accent", 0.5, "accent strength, 0..1")
	build := flag.Float64("build", 0.0, "build/fill intensity, 0..1")
	swing := flag.Float64("swing", 0.5, "swing amount, 0..1")
	flavor := flag.Float64("flavor", 0.0, "micro-timing humanization, 0..1")
	patternLen := flag.Int("length", 16, "pattern length: 16, 24, 32, or 64")
	seed := flag.Uint("seed", 1, "pattern seed")
	tempo := flag.Float64("tempo", 120, "tempo in BPM (16th-note steps)")
	presetName := flag.String("preset", "", "named preset: four-on-the-floor, halftime, idm-wild")
	presetFile := flag.String("preset-file", "", "path to a TOML preset file")
	silent := flag.Bool("silent", false, "disable the audible click monitor")
	headless := flag.Bool("headless", false, "disable the terminal visualizer")
	exportWAV := flag.String("export-wav", "", "render to this WAV path instead of playing live")
	exportSeconds := flag.Float64("export-seconds", 8, "duration to render with -export-wav")
	flag.Parse()

	params, err := resolveParams(*presetName, *presetFile, pattern.Params{
		Energy:     float32(*energy),
		Shape:      float32(*shape),
		AxisX:      float32(*axisX),
		AxisY:      float32(*axisY),
		Balance:    float32(*balance),
		Drift:      float32(*drift),
		Accent:     float32(*accent),
		Build:      float32(*build),
		Swing:      float32(*swing),
		Flavor:     float32(*flavor),
		PatternLen: pattern.SnapLength(*patternLen),
		Seed:       uint32(*seed),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	samplesPerStep := int32(float64(sampleRate) * 60 / (*tempo * 4))
	e := engine.New(params, sampleRate, samplesPerStep)

	if *exportWAV != "" {
		if err := runExport(e, samplesPerStep, *exportWAV, *exportSeconds); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var synth *monitor.ClickSynth
	var rt *monitor.RealtimeMonitor
	if !*silent {
		synth = monitor.NewClickSynth(sampleRate)
		e.Callbacks.OnTrigger = synth.HandleTrigger
		rt, err = monitor.NewRealtimeMonitor(synth, sampleRate)
		if err != nil {
			log.Printf("audio monitor unavailable, continuing silently: %v", err)
			rt = nil
		} else {
			defer rt.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runClock(ctx, e, time.Duration(float64(time.Minute)/(*tempo*4)))
	})

	if !*headless {
		model := visualizer.NewModel(func() visualizer.EngineSnapshot {
			s := e.SnapshotState()
			return visualizer.EngineSnapshot{
				Params:    s.Params,
				Phrase:    s.Phrase,
				Bar:       s.Bar,
				StepInBar: s.StepInBar,
			}
		})
		p := tea.NewProgram(model)
		g.Go(func() error {
			_, err := p.Run()
			stop()
			return err
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runExport drives the engine offline (no wall clock, no live monitor) and
// renders durationSeconds of its click output to a WAV file at path, the
// golden-vector export path of SPEC_FULL.md §B.
func runExport(e *engine.Engine, samplesPerStep int32, path string, durationSeconds float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating WAV output: %w", err)
	}
	defer f.Close()

	synth := monitor.NewClickSynth(sampleRate)
	e.Callbacks.OnTrigger = synth.HandleTrigger

	return monitor.ExportWAV(synth, sampleRate, samplesPerStep, e.AdvanceStep, f, durationSeconds)
}

// runClock ticks the engine forward one step at a time in real time,
// matching the teacher's software-clock idiom from pkg/audio/player.go's
// row/tick stepping, generalized from a fixed audio buffer pull to a
// wall-clock-paced push.
func runClock(ctx context.Context, e *engine.Engine, stepPeriod time.Duration) error {
	ticker := time.NewTicker(stepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.AdvanceStep()
		}
	}
}
