package systems

import "github.com/pthm-cable/ekosystem/traits"

// RollEvasion rolls the species' evasion check. Species without the
// Evasive trait never evade and do not consume randomness.
func RollEvasion(rng RNG, p traits.Profile) bool {
	if !p.Traits.Has(traits.Evasive) {
		return false
	}
	return rng.Float64() <= p.EvadeChance
}
