package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// presetBank holds the supplemented CLI preset banks of SPEC_FULL.md §D:
// named starting points so the CLI has something concrete to demonstrate
// without requiring control hardware.
var presetBank = map[string]pattern.Params{
	"four-on-the-floor": {
		Energy: 0.50, Shape: 0.0, AxisX: 0.5, AxisY: 0.5,
		Balance: 0.5, Drift: 0.1, Accent: 0.6, Build: 0,
		Swing: 0.5, Flavor: 0.1, PatternLen: pattern.Len16, Seed: 1,
	},
	"halftime": {
		Energy: 0.35, Shape: 0.35, AxisX: 0.35, AxisY: 0.55,
		Balance: 0.4, Drift: 0.15, Accent: 0.55, Build: 0,
		Swing: 0.55, Flavor: 0.2, PatternLen: pattern.Len32, Seed: 7,
	},
	"idm-wild": {
		Energy: 0.8, Shape: 0.9, AxisX: 0.8, AxisY: 0.3,
		Balance: 0.6, Drift: 0.6, Accent: 0.7, Build: 0.5,
		Swing: 0.5, Flavor: 0.6, PatternLen: pattern.Len64, Seed: 0xC0FFEE,
	},
}

// presetFileConfig mirrors pattern.Params field-for-field for TOML
// decoding; a plain struct of optional pointers would be more permissive
// but every field here already has a safe zero/clamped default via
// Params.Normalize, so a flat value struct is enough.
type presetFileConfig struct {
	Energy     float32 `toml:"energy"`
	Shape      float32 `toml:"shape"`
	AxisX      float32 `toml:"axis_x"`
	AxisY      float32 `toml:"axis_y"`
	Balance    float32 `toml:"balance"`
	Drift      float32 `toml:"drift"`
	Accent     float32 `toml:"accent"`
	Build      float32 `toml:"build"`
	Swing      float32 `toml:"swing"`
	Flavor     float32 `toml:"flavor"`
	PatternLen int     `toml:"pattern_len"`
	Seed       uint32  `toml:"seed"`
}

func loadPresetFile(path string) (pattern.Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return pattern.Params{}, fmt.Errorf("opening preset file: %w", err)
	}
	defer f.Close()

	var cfg presetFileConfig
	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return pattern.Params{}, fmt.Errorf("decoding preset file: %w", err)
	}

	return pattern.Params{
		Energy:     cfg.Energy,
		Shape:      cfg.Shape,
		AxisX:      cfg.AxisX,
		AxisY:      cfg.AxisY,
		Balance:    cfg.Balance,
		Drift:      cfg.Drift,
		Accent:     cfg.Accent,
		Build:      cfg.Build,
		Swing:      cfg.Swing,
		Flavor:     cfg.Flavor,
		PatternLen: pattern.SnapLength(cfg.PatternLen),
		Seed:       cfg.Seed,
	}.Normalize(), nil
}

// resolveParams picks the effective starting Params: a preset file wins
// over a named preset bank, which wins over the flag-parsed fallback
// (already applied by the caller as flagParams).
func resolveParams(presetName, presetFile string, flagParams pattern.Params) (pattern.Params, error) {
	if presetFile != "" {
		return loadPresetFile(presetFile)
	}
	if presetName != "" {
		p, ok := presetBank[presetName]
		if !ok {
			return pattern.Params{}, fmt.Errorf("unknown preset %q", presetName)
		}
		return p.Normalize(), nil
	}
	return flagParams.Normalize(), nil
}
