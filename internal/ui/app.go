// Package ui renders the scrolling ticker line as a full-screen Bubbletea
// application.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/config"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/marquee"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

// TickMsg drives one animation frame.
type TickMsg time.Time

type keyMap struct {
	Quit  key.Binding
	Pause key.Binding
}

var keys = keyMap{
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Pause: key.NewBinding(key.WithKeys(" ")),
}

// Model is the Bubbletea model for the ticker line.
type Model struct {
	state    *ticker.State
	comp     *marquee.Compositor
	icons    marquee.IconSet
	styles   Styles
	interval time.Duration
	delta    float64

	width    int
	offset   float64
	paused   bool
	segments []ticker.Segment
	line     string
}

// New builds a model scrolling the shared ticker state. The initial width
// comes from the config and is replaced by the first WindowSizeMsg.
func New(state *ticker.State, cfg *config.Config) Model {
	fps := cfg.Animation.FPS
	return Model{
		state:    state,
		comp:     marquee.NewCompositor(marquee.CellMetrics{}, marquee.Config{WidthEpsilon: 0.5}),
		icons:    marquee.NewIconSet(cfg.Icons),
		styles:   NewStyles(cfg.Appearance),
		interval: time.Second / time.Duration(fps),
		delta:    cfg.Animation.ScrollSpeed / float64(fps),
		width:    cfg.Output.Width,
	}
}

// Init starts the animation clock.
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

// Update handles Bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.renderFrame()
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick(m.interval)
	}

	return m, nil
}

// View renders the current line.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	return m.line
}

// step pulls fresh segments when the state lock is free, redraws, and
// advances the scroll offset by one tick.
func (m *Model) step() {
	if segs, ok := m.state.TrySnapshot(); ok {
		m.segments = segs
	}
	m.renderFrame()
	m.offset = m.comp.Advance(m.offset, m.delta)
}

func (m *Model) renderFrame() {
	frame := m.comp.Compose(m.segments, m.offset, float64(m.width))
	m.line = frame.Line(m.width, m.icons, m.styles.Render)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Run blocks inside the Bubbletea program until the user quits or ctx is
// canceled.
func Run(ctx context.Context, state *ticker.State, cfg *config.Config) error {
	p := tea.NewProgram(New(state, cfg), tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
