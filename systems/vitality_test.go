package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/traits"
)

func TestConsume(t *testing.T) {
	rules := config.Cfg().Consumption

	health := components.Health{Value: 10}
	bonuses := components.NewBonuses()

	Consume(CellGrass, rules, &health, &bonuses)
	assert.Equal(t, 11, health.Value)
	assert.Empty(t, bonuses.Active)

	Consume(CellMushroom, rules, &health, &bonuses)
	assert.Equal(t, 16, health.Value)
	got, _ := bonuses.Get(components.BonusStrength)
	assert.Equal(t, components.Bonus{Magnitude: 5, Remaining: 3}, got)

	Consume(CellBush, rules, &health, &bonuses)
	Consume(CellBush, rules, &health, &bonuses)
	got, _ = bonuses.Get(components.BonusSpeed)
	assert.Equal(t, components.Bonus{Magnitude: 2, Remaining: 3}, got)

	Consume(CellStone, rules, &health, &bonuses)
	assert.Equal(t, 16, health.Value)
}

func TestRefreshBonuses(t *testing.T) {
	tw := newTestWorld(2)
	e := tw.spawn(traits.Wolf, 0, 0)
	tw.org.Get(e).Evading = true
	tw.bonus.Get(e).Grant(components.BonusStrength, 5, 3)

	vs := NewVitalitySystem(tw.world)
	vs.RefreshBonuses(e)

	assert.False(t, tw.org.Get(e).Evading)
	assert.Equal(t, 35, tw.stats.Get(e).Strength)
	assert.Equal(t, 7, tw.stats.Get(e).Speed)
	got, _ := tw.bonus.Get(e).Get(components.BonusStrength)
	assert.Equal(t, 2, got.Remaining)
}

func TestApplyEffects(t *testing.T) {
	tw := newTestWorld(2)
	e := tw.spawn(traits.Sparrow, 0, 0)
	tw.health.Get(e).Value = 12
	tw.effect.Get(e).Add(components.Effect{DamagePerTurn: 5, Remaining: 3})

	vs := NewVitalitySystem(tw.world)

	dmg, dead := vs.ApplyEffects(e)
	assert.Equal(t, 5, dmg)
	assert.False(t, dead)
	_, dead = vs.ApplyEffects(e)
	assert.False(t, dead)
	_, dead = vs.ApplyEffects(e)
	assert.True(t, dead)
	assert.Equal(t, -3, tw.health.Get(e).Value)
	assert.Empty(t, tw.effect.Get(e).Active)

	dmg, _ = vs.ApplyEffects(e)
	assert.Zero(t, dmg)
}

func TestRollEvasion(t *testing.T) {
	rng := &fixedRNG{f: 0.5}
	assert.True(t, RollEvasion(rng, traits.Sparrow.Profile()))
	assert.False(t, RollEvasion(rng, traits.Hare.Profile()))

	calls := rng.calls
	assert.False(t, RollEvasion(rng, traits.Wolf.Profile()))
	assert.Equal(t, calls, rng.calls, "non-evasive species must not draw")
}
