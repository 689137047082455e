// Package traits defines species capabilities and the fixed species table.
package traits

// Trait is a single creature capability.
type Trait uint32

const (
	// Diet traits
	Grazer Trait = 1 << iota // Eats only resources, never hunts
	Hunter                   // Takes part in the hunting phase

	// Movement traits
	Mover // Walks across the board each turn

	// Hunting traits (hunters only)
	FarSight // Attacks up to two cells out along each axis
	Venomous // Attacks also poison the target

	// Unique abilities
	Evasive // Rolls an evasion check every turn
)

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// IsCarnivore checks if traits indicate a hunting species.
func IsCarnivore(t Trait) bool {
	return t.Has(Hunter)
}

// IsHerbivore checks if traits indicate a grazing species.
func IsHerbivore(t Trait) bool {
	return t.Has(Grazer) && !t.Has(Hunter)
}

// HunterOnlyTraits are traits that only apply to hunters.
var HunterOnlyTraits = FarSight | Venomous
