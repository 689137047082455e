package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/traits"
)

// spawnInitialPopulation places PerSpecies creatures of every species, species
// by species, each on an empty cell drawn at random without replacement.
func (g *Game) spawnInitialPopulation() error {
	perSpecies := g.cfg.Population.PerSpecies
	need := perSpecies * int(traits.NumSpecies)

	free := g.grid.Positions(systems.CellEmpty)
	if len(free) < need {
		return fmt.Errorf("%w: %d creatures, %d empty cells on a %dx%d board",
			ErrBoardFull, need, len(free), g.grid.Size(), g.grid.Size())
	}

	for _, species := range traits.All() {
		for i := 0; i < perSpecies; i++ {
			idx := g.rng.Intn(len(free))
			pos := free[idx]
			free[idx] = free[len(free)-1]
			free = free[:len(free)-1]

			g.spawnEntity(species, pos)
		}
	}
	return nil
}

// Spawn places a single creature on a walkable cell, replacing any resource
// there. Used for scripted scenarios.
func (g *Game) Spawn(species traits.Species, x, y int) (ecs.Entity, error) {
	if species >= traits.NumSpecies {
		return ecs.Entity{}, fmt.Errorf("spawn: unknown species %d", species)
	}
	if !g.grid.Walkable(x, y) {
		return ecs.Entity{}, fmt.Errorf("spawn %s at (%d,%d): %w", species, x, y, ErrCellBlocked)
	}
	return g.spawnEntity(species, components.Position{X: x, Y: y}), nil
}

// spawnEntity creates a creature with its species' base stats.
func (g *Game) spawnEntity(species traits.Species, at components.Position) ecs.Entity {
	profile := species.Profile()

	id := g.nextID
	g.nextID++

	pos := at
	org := components.Organism{
		ID:      id,
		Species: species,
		Symbol:  profile.Symbol,
		Born:    g.turn,
		Traits:  profile.Traits,
	}
	stats := components.NewStats(profile.Strength, profile.Speed)
	health := components.Health{Value: profile.Health}
	bonuses := components.NewBonuses()
	effects := components.Effects{}

	entity := g.entityMapper.NewEntity(&pos, &org, &stats, &health, &bonuses, &effects)
	g.grid.Occupy(pos.X, pos.Y, entity, profile.Symbol)

	g.roster = append(g.roster, entity)
	if profile.Carnivore() {
		g.carnivores = append(g.carnivores, entity)
	}
	g.lifetime.Register(id, species, g.turn)

	return entity
}

// removeEntity takes a dead creature off the board, out of both population
// views and out of the world. Component pointers taken before this call are stale.
func (g *Game) removeEntity(e ecs.Entity) {
	pos := *g.posMap.Get(e)
	org := *g.orgMap.Get(e)

	if c := g.grid.CellAt(pos.X, pos.Y); c.Kind == systems.CellOccupied && c.Occupant == e {
		g.grid.Vacate(pos.X, pos.Y)
	}
	g.roster = without(g.roster, e)
	if org.Species.Profile().Carnivore() {
		g.carnivores = without(g.carnivores, e)
	}
	g.world.RemoveEntity(e)

	g.logDeath(org, pos)
}

// without removes e from list, keeping order.
func without(list []ecs.Entity, e ecs.Entity) []ecs.Entity {
	for i, x := range list {
		if x == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Damage applies scripted damage outside the turn phases. A creature brought
// to zero health is removed immediately. Reports whether it died.
func (g *Game) Damage(e ecs.Entity, amount int) (bool, error) {
	if !g.world.Alive(e) {
		return false, ErrUnknownEntity
	}
	health := g.healthMap.Get(e)
	health.Value -= amount
	if !health.Dead() {
		return false, nil
	}

	id := g.orgMap.Get(e).ID
	g.removeEntity(e)
	g.lifetime.MarkDead(id, g.turn)
	return true, nil
}
