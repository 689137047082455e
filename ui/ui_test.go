package ui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/game"
)

func init() {
	config.MustInit("")
}

func testGame(t *testing.T) *game.Game {
	t.Helper()
	cfg := config.Defaults()
	cfg.Turn.MaxTurns = 500
	g := game.New(game.Options{
		Config: cfg,
		Seed:   11,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, g.Setup())
	return g
}

func update(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestTickStepsUnlessPaused(t *testing.T) {
	g := testGame(t)
	m := newModel(g, Options{})

	m, cmd := update(m, tickMsg(time.Now()))
	assert.Equal(t, 1, g.Turn()+boolInt(g.Done()))
	if !g.Done() {
		assert.NotNil(t, cmd, "ticks keep coming while the game runs")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, m.paused)
	turn := g.Turn()
	m, _ = update(m, tickMsg(time.Now()))
	assert.Equal(t, turn, g.Turn(), "paused viewer does not step on tick")

	_, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if !g.Done() {
		assert.Equal(t, turn+1, g.Turn(), "n steps once while paused")
	}
}

func TestQuitKey(t *testing.T) {
	m := newModel(testGame(t), Options{})
	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTicksStopWhenDone(t *testing.T) {
	g := testGame(t)
	m := newModel(g, Options{})
	for !g.Done() {
		m.step()
	}
	require.True(t, g.Done())

	_, cmd := update(m, tickMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "finished")
	assert.Contains(t, m.View(), "Winner:")
}

func TestViewShowsBoardAndHelp(t *testing.T) {
	m := newModel(testGame(t), Options{StartPaused: true})
	view := m.View()
	assert.Contains(t, view, "Legend")
	assert.Contains(t, view, "Species")
	assert.Contains(t, view, "paused")
	assert.Contains(t, view, "q quit")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
