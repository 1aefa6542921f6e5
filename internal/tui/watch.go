// Package tui shows a running layout as live statistics in the terminal.
// It never draws the graph itself.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/swarmsim/internal/engine"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/metrics"
	"github.com/san-kum/swarmsim/internal/sim"
)

const (
	historyLen = 120
	maxSpeedup = 32
)

type tickMsg time.Time

type Model struct {
	engine  *engine.Engine
	snap    *entity.Snapshot
	metrics []sim.Metric
	name    string

	frameRate int
	speed     int
	limit     int
	paused    bool
	quitting  bool
	history   []float64
	width     int
}

// NewModel watches snap being stepped by e at frameRate ticks per second.
// limit stops stepping after that many frames; zero means no limit.
func NewModel(e *engine.Engine, snap *entity.Snapshot, name string, frameRate, limit int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return Model{
		engine:    e,
		snap:      snap,
		metrics:   sim.DefaultMetrics(),
		name:      name,
		frameRate: frameRate,
		speed:     1,
		limit:     limit,
		history:   make([]float64, 0, historyLen),
		width:     80,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "+", "=":
			if m.speed < maxSpeedup {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "n":
			if m.paused {
				m.step()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if !m.paused {
			for i := 0; i < m.speed && !m.done(); i++ {
				m.step()
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.done() {
		return
	}
	m.engine.Step(m.snap)
	for _, mt := range m.metrics {
		mt.Observe(m.snap)
	}
	m.history = append(m.history, metrics.Kinetic(m.snap))
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m Model) done() bool {
	return m.limit > 0 && m.engine.Frame() >= m.limit
}

func (m Model) Frame() int { return m.engine.Frame() }

func (m Model) Paused() bool { return m.paused }

func (m Model) Speed() int { return m.speed }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	status := stepping.Render("running")
	switch {
	case m.done():
		status = mutedStyle.Render("finished")
	case m.paused:
		status = held.Render("paused")
	}
	b.WriteString(headingStyle.Render("swarmsim "+m.name) + "  " + status + "\n\n")

	b.WriteString(Row("frame", fmt.Sprintf("%d", m.engine.Frame())))
	if m.limit > 0 {
		b.WriteString("  " + gauge(float64(m.engine.Frame())/float64(m.limit), 30))
	}
	b.WriteString("\n")
	b.WriteString(Row("speed", fmt.Sprintf("x%d", m.speed)) + "\n")
	b.WriteString(labelStyle.Render("sources") + kindStyle(entity.Source).Render(fmt.Sprintf("%d", len(m.snap.Handles(entity.Source)))) + "\n")
	b.WriteString(labelStyle.Render("targets") + kindStyle(entity.Target).Render(fmt.Sprintf("%d", len(m.snap.Handles(entity.Target)))) + "\n")
	b.WriteString(Row("edges", fmt.Sprintf("%d", len(m.snap.Edges))) + "\n")
	for _, mt := range m.metrics {
		b.WriteString(Row(mt.Name(), fmt.Sprintf("%.4f", mt.Value())) + "\n")
	}

	stats := m.engine.Stats()
	if stats.SkippedEdges > 0 || stats.Clamped > 0 {
		b.WriteString(alertStyle.Render(fmt.Sprintf("skipped edges %d  clamped %d", stats.SkippedEdges, stats.Clamped)) + "\n")
	}

	if len(m.history) > 1 {
		w := m.width - 16
		if w > historyLen {
			w = historyLen
		}
		if w < 20 {
			w = 20
		}
		chart := asciigraph.Plot(m.history, asciigraph.Height(8), asciigraph.Width(w), asciigraph.Caption("kinetic energy"))
		b.WriteString("\n" + chart + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render("space pause  n step  +/- speed  q quit") + "\n")
	return boardStyle.Render(b.String())
}

// Run shows m until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
