package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/phys"
)

const (
	canvasWidth  = 70
	canvasHeight = 22
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(38)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a world in real time and renders a side view next to a
// per-body stats panel.
type Model struct {
	scenario *config.Config
	world    *phys.World
	bodies   []*phys.Body
	canvas   *Canvas
	view     View
	running  bool
	err      error
}

func NewModel(scenario *config.Config) Model {
	m := Model{
		scenario: scenario,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		running:  true,
	}
	m.reset()
	return m
}

func (m *Model) reset() {
	w, bodies, err := m.scenario.Build()
	if err != nil {
		m.err = err
		return
	}
	m.world = w
	m.bodies = bodies
	// Freeze the frame early so the camera doesn't chase falling boxes.
	m.view = FitBodies(bodies, w.Now())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.world.StepTime(m.world.Step())
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("scenario error: %v\n", m.err)
	}

	now := m.world.Now()
	RenderWorld(m.canvas, m.view, m.world.Bodies(), now)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render(m.scenario.Name) + "\n")
	stats.WriteString(row("time", fmt.Sprintf("%.2f s", now)))
	stats.WriteString(row("bodies", fmt.Sprintf("%d", len(m.world.Bodies()))))
	stats.WriteString("\n")
	for i, b := range m.bodies {
		if b.Destroyed() {
			continue
		}
		p := b.Position(now)
		v := b.Velocity(now)
		tag := "dyn"
		if b.Static() {
			tag = "static"
		} else if b.Supported() {
			tag = "rest"
		}
		stats.WriteString(row(
			fmt.Sprintf("#%d %s", i, tag),
			fmt.Sprintf("y=%7.3f vy=%7.3f", p.Y, v.Y)))
	}

	state := "running"
	if !m.running {
		state = "paused"
	}
	help := helpStyle.Render(fmt.Sprintf("[%s]  space pause · r reset · q quit", state))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			canvasStyle.Render(m.canvas.String()),
			statsStyle.Render(stats.String()),
		),
		help,
	)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// Run starts the live view and blocks until the user quits.
func Run(scenario *config.Config) error {
	_, err := tea.NewProgram(NewModel(scenario), tea.WithAltScreen()).Run()
	return err
}
