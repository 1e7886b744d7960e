package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/sim"
)

const (
	historyCapacity = 600
	defaultInterval = time.Second / 15
)

type TickMsg time.Time

// Model is the bubbletea model for watching a driver evolve. It steps once
// per tick while running and keeps the recent alive counts for the graph.
type Model struct {
	driver     *sim.Driver
	initial    *grid.Grid
	title      string
	canvas     *Canvas
	interval   time.Duration
	limit      int
	running    bool
	alive      []float64
	recorder   *Recorder
	recording  bool
	recordPath string
	status     string
	showHelp   bool
}

// NewModel wraps d. Reset restores initial; limit stops stepping after that
// many generations (0 runs forever).
func NewModel(d *sim.Driver, initial *grid.Grid, title string, limit int) Model {
	return Model{
		driver:     d,
		initial:    initial.Clone(),
		title:      title,
		canvas:     CanvasFor(initial),
		interval:   defaultInterval,
		limit:      limit,
		running:    true,
		alive:      []float64{float64(d.Alive())},
		recorder:   NewRecorder(4, 8),
		recordPath: "cellsim.gif",
	}
}

// WithInterval sets the delay between generations.
func (m Model) WithInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

// WithRecordPath sets where the g key saves its GIF.
func (m Model) WithRecordPath(path string) Model {
	if path != "" {
		m.recordPath = path
	}
	return m
}

func (m Model) Generation() int { return m.driver.Generation() }
func (m Model) Running() bool { return m.running }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.driver.Reset(m.initial)
			m.resetHistory()
		case "c":
			m.driver.Clear()
			m.resetHistory()
		case "t":
			NextTheme()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.limit > 0 && m.driver.Generation() >= m.limit {
		m.running = false
		return
	}
	n := m.driver.Step()
	m.alive = append(m.alive, float64(n))
	if len(m.alive) > historyCapacity {
		m.alive = m.alive[1:]
	}
	if m.recording {
		m.recorder.Capture(m.driver.Grid())
	}
}

func (m *Model) resetHistory() {
	m.alive = []float64{float64(m.driver.Alive())}
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorder.Reset()
		m.recorder.Capture(m.driver.Grid())
		m.status = "recording"
		return
	}
	m.recording = false
	if err := m.recorder.Save(m.recordPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.recordPath)
	}
	m.recorder.Reset()
}

func (m Model) View() string {
	m.canvas.DrawGrid(m.driver.Grid())
	canvasView := canvasStyle.Render(aliveStyle().Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), CurrentTheme.Accent, CurrentTheme.Alive) + "\n\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	if len(m.alive) > 1 {
		chart := asciigraph.Plot(m.alive, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("Alive"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Generation") + valueStyle().Render(fmt.Sprintf("%d", m.driver.Generation())) + "\n")
	s.WriteString(labelStyle.Render("Alive") + valueStyle().Render(fmt.Sprintf("%d", m.driver.Alive())) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle().Render(CurrentTheme.Name) + "\n")
	if m.status != "" {
		s.WriteString("\n" + valueStyle().Render(m.status) + "\n")
	}
	s.WriteString(helpStyle().Render("SP:Pause N:Step R:Reset C:Clear\nT:Theme  G:Record ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Step once while paused   ║
║  R        - Reset to the seed grid   ║
║  C        - Clear every cell         ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
