package game

import (
	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/telemetry"
)

// logDeath logs a creature leaving the board.
func (g *Game) logDeath(org components.Organism, pos components.Position) {
	g.logger.Debug("death",
		"turn", g.turn,
		"id", org.ID,
		"species", org.Species.String(),
		"x", pos.X,
		"y", pos.Y,
	)
}

// logTurn logs the per-turn summary.
func (g *Game) logTurn(stats telemetry.TurnStats) {
	g.logger.Debug("turn", "stats", stats)
}

// logResult logs the end of the run.
func (g *Game) logResult(r Result) {
	g.logger.Info("simulation finished",
		"winner", r.Species,
		"turns", r.Turns,
		"survivors", r.Survivors,
		"creatures", g.lifetime.Count(),
		"extinctions", len(g.bookmarks.Extinctions()),
		"perf", g.perf.Stats(),
	)
}
