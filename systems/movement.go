package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
)

// MovementSystem walks creatures across the grid one orthogonal step at a time.
type MovementSystem struct {
	grid   *Grid
	rng    RNG
	feeder *FeedingSystem
	posMap *ecs.Map[components.Position]
	orgMap *ecs.Map[components.Organism]
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World, grid *Grid, rng RNG, feeder *FeedingSystem) *MovementSystem {
	return &MovementSystem{
		grid:   grid,
		rng:    rng,
		feeder: feeder,
		posMap: ecs.NewMap[components.Position](w),
		orgMap: ecs.NewMap[components.Organism](w),
	}
}

// Move takes up to steps steps and returns the resources eaten, in order.
//
// Each step tries the four neighbours in random order and takes the first that
// is walkable and is neither the cell the move started from nor the cell just
// left. A step with no such neighbour ends the move.
func (s *MovementSystem) Move(e ecs.Entity, steps int) []CellKind {
	pos := s.posMap.Get(e)
	org := s.orgMap.Get(e)
	origin := *pos

	var eaten []CellKind
	for step := 0; step < steps; step++ {
		candidates := pos.Neighbors()
		s.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		moved := false
		for _, next := range candidates {
			if !s.grid.Walkable(next.X, next.Y) || next == origin {
				continue
			}
			if org.HasPrev && next == org.Prev {
				continue
			}

			if kind := s.grid.CellAt(next.X, next.Y).Kind; kind.IsResource() {
				s.feeder.Feed(e, kind)
				eaten = append(eaten, kind)
			}
			s.grid.Vacate(pos.X, pos.Y)
			s.grid.Occupy(next.X, next.Y, e, org.Symbol)
			org.MoveTo(pos, next)
			moved = true
			break
		}
		if !moved {
			break
		}
	}
	return eaten
}
