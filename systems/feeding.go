package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
)

// Consume applies the effect of eating a resource cell.
// Non-resource kinds are ignored.
func Consume(kind CellKind, rules config.ConsumptionConfig, health *components.Health, bonuses *components.Bonuses) {
	switch kind {
	case CellGrass:
		health.Value += rules.GrassHealth
	case CellBush:
		bonuses.Grant(components.BonusSpeed, rules.BushSpeed.Magnitude, rules.BushSpeed.Turns)
	case CellMushroom:
		bonuses.Grant(components.BonusStrength, rules.MushroomBonus.Magnitude, rules.MushroomBonus.Turns)
		health.Value += rules.MushroomHealth
	}
}

// FeedingSystem applies consumption effects to entities.
type FeedingSystem struct {
	healthMap *ecs.Map[components.Health]
	bonusMap  *ecs.Map[components.Bonuses]
	rules     config.ConsumptionConfig
}

// NewFeedingSystem creates a new feeding system.
func NewFeedingSystem(w *ecs.World, rules config.ConsumptionConfig) *FeedingSystem {
	return &FeedingSystem{
		healthMap: ecs.NewMap[components.Health](w),
		bonusMap:  ecs.NewMap[components.Bonuses](w),
		rules:     rules,
	}
}

// Feed applies a resource to the entity.
func (s *FeedingSystem) Feed(e ecs.Entity, kind CellKind) {
	Consume(kind, s.rules, s.healthMap.Get(e), s.bonusMap.Get(e))
}
