package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/flockview/internal/bridge"
	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/frameloop"
	"go.uber.org/zap"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	historyLen  = 120
	graphHeight = 4
	// chrome is the rows used by everything but the canvas.
	chrome = graphHeight + 7
)

type Options struct {
	Config *config.Config
	Buffer *bridge.Buffer
	Logger *zap.Logger
	Source string
}

type model struct {
	loop     *frameloop.App
	renderer *Renderer
	source   string
	interval time.Duration

	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

func newModel(opts Options) *model {
	r := NewRenderer(74, 24-chrome, historyLen)
	cam := camera.NewController(opts.Config.World, opts.Config.Camera)
	fps := opts.Config.Window.FPS
	if fps <= 0 {
		fps = 30
	}
	return &model{
		loop:     frameloop.New(opts.Buffer, cam, r, opts.Config.Input, opts.Logger),
		renderer: r,
		source:   opts.Source,
		interval: time.Second / time.Duration(fps),
		width:    80,
		height:   24,
	}
}

type tickMsg time.Time

func (m *model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Init() tea.Cmd { return m.tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ev, ok := translate(msg); ok {
		m.loop.Input().Handle(ev)
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "h":
			m.renderer.Headings = !m.renderer.Headings
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderer.Resize(m.width-6, m.height-chrome)
	case tickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastFrame = now
		if err := m.loop.Tick(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	stats := m.loop.Stats()

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.loop.Paused() {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s  %s\n\n",
		statusIcon, cyan.Render("flockview"), statusText,
		dim.Render(fmt.Sprintf("%s  %d agents", m.source, stats.Count)),
		dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	for _, row := range strings.Split(m.renderer.Canvas.String(), "\n") {
		b.WriteString("   " + row + "\n")
	}

	if hist := m.renderer.Polarization.Values(); len(hist) > 1 {
		graph := asciigraph.Plot(hist,
			asciigraph.Height(graphHeight),
			asciigraph.Width(max(10, min(60, m.width-20))),
			asciigraph.Precision(2),
			asciigraph.Caption(fmt.Sprintf("polarization %.2f", m.renderer.Polarization.Last())))
		for _, row := range strings.Split(graph, "\n") {
			b.WriteString("   " + cyan.Render(row) + "\n")
		}
	}

	if stats.Dropped > 0 {
		b.WriteString("   " + red.Render(fmt.Sprintf("%d frames dropped", stats.Dropped)) + "\n")
	}
	b.WriteString("\n" + dim.Render("   drag pan  wheel zoom  space pause  enter step  h headings  q quit") + "\n")
	return b.String()
}

// Run shows the flock in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}
