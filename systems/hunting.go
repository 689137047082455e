package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/traits"
)

// Attack records one resolved strike.
// IDs and species are captured up front since a killed target is gone by the
// time the caller sees the attack.
type Attack struct {
	Attacker        ecs.Entity
	Target          ecs.Entity
	AttackerID      uint32
	TargetID        uint32
	AttackerSpecies traits.Species
	TargetSpecies   traits.Species

	Damage   int
	Poisoned bool
	Evaded   bool // damage was blocked by a successful evasion roll
	Killed   bool
}

// HuntingSystem resolves carnivore attacks against everything in range.
type HuntingSystem struct {
	grid        *Grid
	poison      components.Effect
	evasionStop bool

	posMap     *ecs.Map[components.Position]
	orgMap     *ecs.Map[components.Organism]
	statsMap   *ecs.Map[components.Stats]
	healthMap  *ecs.Map[components.Health]
	effectsMap *ecs.Map[components.Effects]
}

// NewHuntingSystem creates a new hunting system.
func NewHuntingSystem(w *ecs.World, grid *Grid, poison config.PoisonConfig, abilities config.AbilitiesConfig) *HuntingSystem {
	return &HuntingSystem{
		grid:        grid,
		poison:      components.Effect{DamagePerTurn: poison.DamagePerTurn, Remaining: poison.Turns},
		evasionStop: abilities.EvasionBlocksDamage,
		posMap:      ecs.NewMap[components.Position](w),
		orgMap:      ecs.NewMap[components.Organism](w),
		statsMap:    ecs.NewMap[components.Stats](w),
		healthMap:   ecs.NewMap[components.Health](w),
		effectsMap:  ecs.NewMap[components.Effects](w),
	}
}

// Hunt scans the attacker's range in order and strikes every creature of
// another species found there. Targets brought to zero health are handed to
// kill before the scan continues; kill must remove them from the grid.
func (s *HuntingSystem) Hunt(attacker ecs.Entity, kill func(ecs.Entity)) []Attack {
	// Copy what we need: kill may move component storage.
	pos := *s.posMap.Get(attacker)
	org := s.orgMap.Get(attacker)
	species, attackerID := org.Species, org.ID
	strength := s.statsMap.Get(attacker).Strength
	venomous := species.Profile().Traits.Has(traits.Venomous)

	var attacks []Attack
	for _, off := range species.AttackRange() {
		cell := pos.Add(off)
		if !s.grid.InBounds(cell.X, cell.Y) {
			continue
		}
		c := s.grid.CellAt(cell.X, cell.Y)
		if c.Kind != CellOccupied {
			continue
		}
		target := c.Occupant
		tOrg := s.orgMap.Get(target)
		if tOrg.Species == species {
			continue
		}

		atk := Attack{
			Attacker:        attacker,
			Target:          target,
			AttackerID:      attackerID,
			TargetID:        tOrg.ID,
			AttackerSpecies: species,
			TargetSpecies:   tOrg.Species,
		}
		if s.evasionStop && tOrg.Evading {
			atk.Evaded = true
			attacks = append(attacks, atk)
			continue
		}

		health := s.healthMap.Get(target)
		health.Value -= strength
		atk.Damage = strength
		if venomous {
			s.effectsMap.Get(target).Add(s.poison)
			atk.Poisoned = true
		}
		if health.Dead() {
			atk.Killed = true
			kill(target)
		}
		attacks = append(attacks, atk)
	}
	return attacks
}
