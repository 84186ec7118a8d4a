// Package visualizer implements a read-only terminal viewer over engine
// state, adapted from the teacher's pattern editor (pkg/tui/model.go) but
// stripped of every editing affordance: spec.md's Non-goals place a
// control UI out of scope, so this only ever renders the snapshots its
// StateFunc returns, never writes back to the engine.
package visualizer

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duopulse/duopulse/pkg/pattern"
)

// StateFunc lets the caller hand the visualizer a plain state-snapshot
// function instead of requiring an interface adapter, which is how
// cmd/duopulse wires it against engine.Engine.SnapshotState.
type StateFunc func() EngineSnapshot

// EngineSnapshot is the subset of engine.EngineState the visualizer reads.
type EngineSnapshot struct {
	Params    pattern.Params
	Phrase    pattern.PhrasePos
	Bar       pattern.BarResult
	StepInBar int
}

// Model is the bubbletea model driving the viewer.
type Model struct {
	fetch  StateFunc
	Width  int
	Height int

	snap EngineSnapshot
}

// NewModel constructs a viewer that polls fetch on each tick.
func NewModel(fetch StateFunc) Model {
	return Model{fetch: fetch, Width: 100, Height: 20}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update implements tea.Model. It never emits a command that would mutate
// engine state; the only state this model owns is the polled snapshot and
// its own viewport size.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		m.snap = m.fetch()
		return m, tickCmd()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).
		Render("DuoPulse — live")
	b.WriteString(title + "\n\n")

	p := m.snap.Params
	info := fmt.Sprintf("energy %.2f  shape %.2f  axisX %.2f  axisY %.2f  drift %.2f  build %.2f  len %d",
		p.Energy, p.Shape, p.AxisX, p.AxisY, p.Drift, p.Build, int(p.PatternLen))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(info) + "\n")

	phraseInfo := fmt.Sprintf("phrase progress %.0f%%  bar %d  %s",
		m.snap.Phrase.Progress*100, m.snap.Phrase.BarInPhrase, zoneLabel(m.snap.Phrase))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(phraseInfo) + "\n\n")

	n := m.snap.Bar.PatternLen
	if n == 0 {
		n = int(p.PatternLen)
	}
	b.WriteString(renderRow("anchor ", n, m.snap.Bar.AnchorMask, m.snap.StepInBar, "9"))
	b.WriteString(renderRow("shimmer", n, m.snap.Bar.ShimmerMask, m.snap.StepInBar, "11"))
	b.WriteString(renderRow("aux    ", n, m.snap.Bar.AuxMask, m.snap.StepInBar, "13"))

	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("\nq to quit")
	b.WriteString(footer)

	return b.String()
}

func zoneLabel(pos pattern.PhrasePos) string {
	switch {
	case pos.IsFillZone:
		return "fill"
	case pos.IsBuildZone:
		return "build"
	default:
		return "groove"
	}
}

func renderRow(label string, n int, mask pattern.StepMask, cursor int, color string) string {
	cellOn := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	cellOff := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle := lipgloss.NewStyle().Background(lipgloss.Color("4"))

	var row strings.Builder
	row.WriteString(label + " ")
	for i := 0; i < n; i++ {
		glyph := "·"
		if mask.Test(i) {
			glyph = "●"
		}
		style := cellOff
		if mask.Test(i) {
			style = cellOn
		}
		if i == cursor {
			style = cursorStyle.Inherit(style)
		}
		row.WriteString(style.Render(glyph))
		if (i+1)%4 == 0 && i != n-1 {
			row.WriteString(" ")
		}
	}
	row.WriteString("\n")
	return row.String()
}
