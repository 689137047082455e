// Package components defines ECS components for the simulation.
package components

// BonusKind names the stat a bonus modifies.
type BonusKind string

const (
	BonusSpeed    BonusKind = "speed"
	BonusStrength BonusKind = "strength"
)

// Bonus is a timed stat modifier.
type Bonus struct {
	Magnitude int
	Remaining int // turns left, including the next refresh
}

// Bonuses maps bonus kind to the active bonus of that kind.
type Bonuses struct {
	Active map[BonusKind]Bonus
}

// NewBonuses returns an empty bonus set.
func NewBonuses() Bonuses {
	return Bonuses{Active: make(map[BonusKind]Bonus)}
}

// Grant sets or refreshes a bonus. Refreshing resets the duration and
// replaces the magnitude; magnitudes never stack.
func (b *Bonuses) Grant(kind BonusKind, magnitude, turns int) {
	if b.Active == nil {
		b.Active = make(map[BonusKind]Bonus)
	}
	b.Active[kind] = Bonus{Magnitude: magnitude, Remaining: turns}
}

// Get returns the active bonus of a kind.
func (b *Bonuses) Get(kind BonusKind) (Bonus, bool) {
	bonus, ok := b.Active[kind]
	return bonus, ok
}

// Effect is a recurring damage-per-turn penalty.
type Effect struct {
	DamagePerTurn int
	Remaining     int
}

// Effects holds every active damage-over-time effect, in the order applied.
type Effects struct {
	Active []Effect
}

// Add attaches a new effect. Effects stack independently.
func (e *Effects) Add(effect Effect) {
	e.Active = append(e.Active, effect)
}

// Tick counts every effect down by one turn and returns the damage dealt.
// Expired effects are removed.
func (e *Effects) Tick() int {
	damage := 0
	kept := e.Active[:0]
	for _, effect := range e.Active {
		damage += effect.DamagePerTurn
		effect.Remaining--
		if effect.Remaining > 0 {
			kept = append(kept, effect)
		}
	}
	e.Active = kept
	return damage
}
