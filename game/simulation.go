package game

import (
	"context"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/telemetry"
	"github.com/pthm-cable/ekosystem/traits"
)

// Step runs one full turn. It reports whether the run has ended; once it has,
// further calls do nothing.
func (g *Game) Step() bool {
	if g.done {
		return true
	}

	g.perf.StartTurn()

	g.perf.StartPhase(telemetry.PhaseCreatures)
	g.creaturePhase()

	g.perf.StartPhase(telemetry.PhaseHunting)
	g.huntingPhase()

	g.perf.StartPhase(telemetry.PhaseCleanup)
	g.checkInvariants()
	survivors := g.survivingSpecies()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTurn()

	switch {
	case len(survivors) == 0:
		g.finish(NoSurvivors)
	case len(survivors) == 1:
		g.finish(survivors[0].String())
	default:
		g.turn++
		if limit := g.cfg.Turn.MaxTurns; limit > 0 && g.turn >= limit {
			g.finish(Undecided)
		}
	}
	return g.done
}

// creaturePhase walks the roster in creation order: refresh bonuses, move and
// eat, roll evasion, then take damage-over-time.
func (g *Game) creaturePhase() {
	for _, e := range g.Roster() {
		if !g.world.Alive(e) {
			continue
		}
		g.vitality.RefreshBonuses(e)

		org := g.orgMap.Get(e)
		id, species := org.ID, org.Species

		if org.Traits.Has(traits.Mover) {
			for _, kind := range g.movement.Move(e, g.statsMap.Get(e).Speed) {
				name := kind.String()
				if res, ok := systems.ResourceFor(kind); ok {
					name = res.Name
				}
				g.record(telemetry.NewConsumeEvent(g.turn, id, species, name))
			}
		}

		if systems.RollEvasion(g.rng, species.Profile()) {
			g.orgMap.Get(e).Evading = true
		}

		damage, dead := g.vitality.ApplyEffects(e)
		if damage > 0 {
			g.record(telemetry.NewPoisonTickEvent(g.turn, id, species, damage))
		}
		if dead {
			g.record(telemetry.NewEffectDeathEvent(g.turn, id, species))
			g.removeEntity(e)
		}
	}
}

// huntingPhase lets every surviving carnivore strike, in creation order.
func (g *Game) huntingPhase() {
	for _, e := range g.Carnivores() {
		if !g.world.Alive(e) {
			continue
		}
		attacks := g.hunting.Hunt(e, g.removeEntity)
		for _, atk := range attacks {
			if atk.Evaded {
				g.record(telemetry.NewEvadeEvent(g.turn, atk.AttackerID, atk.AttackerSpecies, atk.TargetID, atk.TargetSpecies))
				continue
			}
			g.record(telemetry.NewAttackEvent(g.turn, atk.AttackerID, atk.AttackerSpecies, atk.TargetID, atk.TargetSpecies, atk.Damage))
			if atk.Killed {
				g.record(telemetry.NewKillEvent(g.turn, atk.AttackerID, atk.AttackerSpecies, atk.TargetID, atk.TargetSpecies))
			}
		}
	}
}

// record feeds an event to both the turn collector and the lifetime tracker.
func (g *Game) record(ev telemetry.Event) {
	g.collector.Record(ev)
	g.lifetime.Observe(ev)
}

// survivingSpecies lists species with at least one live creature, in species order.
func (g *Game) survivingSpecies() []traits.Species {
	var counts [traits.NumSpecies]int
	for _, e := range g.roster {
		counts[g.orgMap.Get(e).Species]++
	}
	var out []traits.Species
	for _, s := range traits.All() {
		if counts[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Run steps the game until it ends or ctx is cancelled, waiting the configured
// pacing between turns. onTurn, if set, is called after every turn.
func (g *Game) Run(ctx context.Context, onTurn func(*Game)) (Result, error) {
	pacing := g.cfg.Derived.Pacing
	for {
		if err := ctx.Err(); err != nil {
			return g.result, err
		}
		done := g.Step()
		if onTurn != nil {
			onTurn(g)
		}
		if done {
			return g.result, nil
		}
		if pacing <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return g.result, ctx.Err()
		case <-time.After(pacing):
		}
	}
}

// liveEntities iterates the world rather than the roster, for cross-checks.
func (g *Game) liveEntities() []ecs.Entity {
	var out []ecs.Entity
	query := g.entityFilter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}
