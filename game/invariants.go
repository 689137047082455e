package game

import (
	"fmt"

	"github.com/pthm-cable/ekosystem/systems"
)

// checkInvariants panics if the board and the population disagree.
// A violation is a bug in the turn logic, not a recoverable condition.
func (g *Game) checkInvariants() {
	if n := len(g.liveEntities()); n != len(g.roster) {
		panic(fmt.Sprintf("game: turn %d: %d live entities, roster holds %d", g.turn, n, len(g.roster)))
	}
	if n := g.lifetime.AliveCount(); n != len(g.roster) {
		panic(fmt.Sprintf("game: turn %d: %d creatures alive in lifetime stats, roster holds %d", g.turn, n, len(g.roster)))
	}
	if n := g.grid.Count(systems.CellOccupied); n != len(g.roster) {
		panic(fmt.Sprintf("game: turn %d: %d occupied cells, roster holds %d", g.turn, n, len(g.roster)))
	}

	carnivores := 0
	for _, e := range g.roster {
		pos := g.posMap.Get(e)
		org := g.orgMap.Get(e)
		if !g.grid.InBounds(pos.X, pos.Y) {
			panic(fmt.Sprintf("game: turn %d: %s #%d off board at (%d,%d)", g.turn, org.Species, org.ID, pos.X, pos.Y))
		}
		cell := g.grid.CellAt(pos.X, pos.Y)
		if cell.Kind != systems.CellOccupied || cell.Occupant != e || cell.Symbol != org.Symbol {
			panic(fmt.Sprintf("game: turn %d: %s #%d not on its cell (%d,%d)", g.turn, org.Species, org.ID, pos.X, pos.Y))
		}
		if h := g.healthMap.Get(e); h.Dead() {
			panic(fmt.Sprintf("game: turn %d: %s #%d alive with health %d", g.turn, org.Species, org.ID, h.Value))
		}
		if org.Species.Profile().Carnivore() {
			carnivores++
		}
	}
	if carnivores != len(g.carnivores) {
		panic(fmt.Sprintf("game: turn %d: %d carnivores in roster, view holds %d", g.turn, carnivores, len(g.carnivores)))
	}
}
