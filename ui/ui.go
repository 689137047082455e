// Package ui is a terminal viewer that steps a game at its configured pacing.
package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/ekosystem/game"
	"github.com/pthm-cable/ekosystem/renderer"
)

// eventLogSize is how many recent events the log panel shows.
const eventLogSize = 32

// Options configures the viewer.
type Options struct {
	// Pacing between turns. Zero steps as fast as the terminal redraws.
	Pacing time.Duration
	// StartPaused waits for a key before the first turn.
	StartPaused bool
}

type tickMsg time.Time

type model struct {
	game   *game.Game
	theme  renderer.Theme
	keys   keyMap
	events viewport.Model

	pacing time.Duration
	paused bool
	width  int
	height int
}

func newModel(g *game.Game, opts Options) model {
	m := model{
		game:   g,
		theme:  renderer.DefaultTheme(),
		keys:   defaultKeys(),
		events: viewport.New(60, 8),
		pacing: opts.Pacing,
		paused: opts.StartPaused,
	}
	m.refreshEvents()
	return m
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.pacing, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Step):
			if m.paused {
				m.step()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.events.Width = msg.Width - 4
		if h := msg.Height - m.game.Grid().Size() - 12; h > 3 {
			m.events.Height = h
		}
		m.refreshEvents()

	case tickMsg:
		if !m.paused {
			m.step()
		}
		if m.game.Done() {
			return m, nil
		}
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.events, cmd = m.events.Update(msg)
	return m, cmd
}

// step advances the game one turn and refreshes the event log.
func (m *model) step() {
	if m.game.Done() {
		return
	}
	m.game.Step()
	m.refreshEvents()
}

func (m *model) refreshEvents() {
	events := m.game.RecentEvents(eventLogSize)
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = ev.String()
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.Muted.Render("no events yet"))
	}
	m.events.SetContent(strings.Join(lines, "\n"))
	m.events.GotoBottom()
}

func (m model) View() string {
	snap := m.game.Snapshot()
	if result, done := m.game.Result(); done {
		rec := result.Record()
		snap.Result = &rec
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		renderer.Board(snap, m.theme),
		"  ",
		renderer.Legend(m.theme),
	)

	state := "running"
	switch {
	case m.game.Done():
		state = "finished"
	case m.paused:
		state = "paused"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderer.Status(snap, m.game.LastStats(), m.theme)+"  "+m.theme.Muted.Render(state),
		top,
		renderer.Roster(snap, m.theme),
		m.theme.Panel.Render(m.events.View()),
		m.theme.Muted.Render(m.keys.help()),
	)
}

// Run shows the game in the terminal until it ends and the user quits.
// The game is stepped by the viewer; it must already be set up.
func Run(g *game.Game, opts Options) (game.Result, error) {
	p := tea.NewProgram(newModel(g, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return game.Result{}, err
	}
	result, _ := g.Result()
	return result, nil
}
