package components

import "github.com/pthm-cable/ekosystem/traits"

// Organism bundles identity and movement bookkeeping.
type Organism struct {
	ID      uint32
	Species traits.Species
	Symbol  rune
	Born    int // turn the entity was created

	// Traits starts as the species' capability set.
	Traits traits.Trait

	// Prev is the cell occupied before the most recent step.
	// It only blocks immediate backtracking.
	Prev    Position
	HasPrev bool

	// Evading is set by a successful evasion roll and cleared at the next refresh.
	Evading bool
}

// MoveTo records a step, remembering the cell left behind.
func (o *Organism) MoveTo(pos *Position, next Position) {
	o.Prev = *pos
	o.HasPrev = true
	*pos = next
}

// Stats holds strength and speed: base values from the species table
// and current values after bonuses.
type Stats struct {
	BaseStrength int
	BaseSpeed    int
	Strength     int
	Speed        int
}

// NewStats returns stats with current values equal to base values.
func NewStats(strength, speed int) Stats {
	return Stats{
		BaseStrength: strength,
		BaseSpeed:    speed,
		Strength:     strength,
		Speed:        speed,
	}
}

// Refresh resets current stats to base, folds in every active bonus,
// and counts each bonus down by one turn. Expired bonuses are removed.
func (s *Stats) Refresh(b *Bonuses) {
	s.Strength = s.BaseStrength
	s.Speed = s.BaseSpeed

	for kind, bonus := range b.Active {
		switch kind {
		case BonusSpeed:
			s.Speed += bonus.Magnitude
		case BonusStrength:
			s.Strength += bonus.Magnitude
		}
		bonus.Remaining--
		if bonus.Remaining <= 0 {
			delete(b.Active, kind)
		} else {
			b.Active[kind] = bonus
		}
	}
}

// Health is signed: it can dip below zero before the entity is removed.
type Health struct {
	Value int
}

// Dead reports whether the entity must be removed.
func (h Health) Dead() bool {
	return h.Value <= 0
}
