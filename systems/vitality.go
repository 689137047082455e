package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
)

// VitalitySystem handles the per-turn bonus refresh and damage-over-time ticks.
type VitalitySystem struct {
	statsMap   *ecs.Map[components.Stats]
	bonusMap   *ecs.Map[components.Bonuses]
	healthMap  *ecs.Map[components.Health]
	effectsMap *ecs.Map[components.Effects]
	orgMap     *ecs.Map[components.Organism]
}

// NewVitalitySystem creates a new vitality system.
func NewVitalitySystem(w *ecs.World) *VitalitySystem {
	return &VitalitySystem{
		statsMap:   ecs.NewMap[components.Stats](w),
		bonusMap:   ecs.NewMap[components.Bonuses](w),
		healthMap:  ecs.NewMap[components.Health](w),
		effectsMap: ecs.NewMap[components.Effects](w),
		orgMap:     ecs.NewMap[components.Organism](w),
	}
}

// RefreshBonuses recomputes current stats from base plus active bonuses and
// clears last turn's evasion.
func (s *VitalitySystem) RefreshBonuses(e ecs.Entity) {
	s.orgMap.Get(e).Evading = false
	s.statsMap.Get(e).Refresh(s.bonusMap.Get(e))
}

// ApplyEffects ticks every damage-over-time effect. It returns the damage
// taken and whether the entity is now dead.
func (s *VitalitySystem) ApplyEffects(e ecs.Entity) (damage int, dead bool) {
	effects := s.effectsMap.Get(e)
	if len(effects.Active) == 0 {
		return 0, false
	}
	health := s.healthMap.Get(e)
	damage = effects.Tick()
	health.Value -= damage
	return damage, health.Dead()
}
