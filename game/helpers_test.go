package game

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/traits"
)

func init() {
	config.MustInit("")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGame(t *testing.T, mutate func(*config.Config)) *Game {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(Options{Config: cfg, Seed: 7, Logger: quietLogger()})
}

// boxedCells keeps every species three cells apart, out of any attack range.
var boxedCells = []components.Position{
	{X: 1, Y: 1}, {X: 4, Y: 1}, {X: 7, Y: 1},
	{X: 1, Y: 4}, {X: 4, Y: 4}, {X: 7, Y: 4},
	{X: 1, Y: 7}, {X: 4, Y: 7},
}

// spawnAt places creatures in order and returns their handles.
func spawnAt(t *testing.T, g *Game, species []traits.Species, cells []components.Position) []ecs.Entity {
	t.Helper()
	require.Len(t, cells, len(species))
	out := make([]ecs.Entity, len(species))
	for i, s := range species {
		e, err := g.Spawn(s, cells[i].X, cells[i].Y)
		require.NoError(t, err)
		out[i] = e
	}
	return out
}

// stoneEmptyCells turns every unoccupied cell into stone so nothing can move.
func stoneEmptyCells(g *Game) {
	for y := 0; y < g.grid.Size(); y++ {
		for x := 0; x < g.grid.Size(); x++ {
			if g.grid.CellAt(x, y).Kind == systems.CellEmpty {
				g.grid.SetCell(x, y, systems.Cell{Kind: systems.CellStone})
			}
		}
	}
}

// boxedGame spawns one creature of every species on boxedCells and walls them in.
func boxedGame(t *testing.T, mutate func(*config.Config)) (*Game, []ecs.Entity) {
	t.Helper()
	g := newTestGame(t, mutate)
	entities := spawnAt(t, g, traits.All(), boxedCells)
	stoneEmptyCells(g)
	return g, entities
}
