package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/curtisalleynesr/reactphysics3d/internal/metrics"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

const (
	canvasWidth  = 80
	canvasHeight = 24
)

type TickMsg time.Time

// Model is the Bubble Tea model for the live watch view: it steps the
// world once per tick and renders a side view next to the step metrics.
type Model struct {
	world  *world.World
	rec    *metrics.Recorder
	scene  string
	paused bool
	err    error
}

func NewModel(w *world.World, rec *metrics.Recorder, scene string) Model {
	return Model{world: w, rec: rec, scene: scene}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(float64(m.world.Timestep()) * float64(time.Second))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case TickMsg:
		if !m.paused {
			if err := m.world.Update(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	canvas := canvasStyle.Render(Frame(m.world, canvasWidth, canvasHeight))

	var stats strings.Builder
	stats.WriteString(headerStyle.Render(m.scene))
	stats.WriteString("\n")
	writeStat(&stats, "time", fmt.Sprintf("%.2f s", float64(m.world.Time())))
	writeStat(&stats, "steps", fmt.Sprintf("%d", m.world.Steps()))
	writeStat(&stats, "bodies", fmt.Sprintf("%d", m.world.BodyCount()))
	writeStat(&stats, "awake", fmt.Sprintf("%d", m.world.AwakeBodyCount()))
	writeStat(&stats, "manifolds", fmt.Sprintf("%d", m.world.ManifoldCount()))
	if m.rec != nil {
		values := m.rec.Values()
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			writeStat(&stats, name, fmt.Sprintf("%.4f", float64(values[name])))
		}
	}
	if m.paused {
		stats.WriteString("\n")
		stats.WriteString(sleepingStyle.Render("paused"))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(stats.String()))
	return view + helpStyle.Render("\nspace pause · q quit\n")
}

// Err reports the failure that ended the session, if any.
func (m Model) Err() error { return m.err }

func writeStat(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label))
	sb.WriteString(valueStyle.Render(value))
	sb.WriteString("\n")
}
