package traits

import "fmt"

// Species identifies one of the fixed creature species.
type Species uint8

const (
	Wolf Species = iota
	Eagle
	Viper
	Bear
	Bison
	Sparrow
	Hare
	RoeDeer
	NumSpecies
)

// Offset is a relative board coordinate.
type Offset struct {
	DX, DY int
}

// Profile holds the fixed stats and capabilities of a species.
type Profile struct {
	Name        string
	Symbol      rune
	Traits      Trait
	Strength    int
	Health      int
	Speed       int
	EvadeChance float64 // Only meaningful with Evasive
}

// Carnivore reports whether the species hunts.
func (p Profile) Carnivore() bool {
	return IsCarnivore(p.Traits)
}

var profiles = [NumSpecies]Profile{
	Wolf:    {Name: "Wolf", Symbol: 'W', Traits: Hunter | Mover, Strength: 30, Health: 60, Speed: 7},
	Eagle:   {Name: "Eagle", Symbol: 'E', Traits: Hunter | Mover | FarSight, Strength: 20, Health: 30, Speed: 9},
	Viper:   {Name: "Viper", Symbol: 'V', Traits: Hunter | Mover | Venomous, Strength: 15, Health: 40, Speed: 5},
	Bear:    {Name: "Bear", Symbol: 'B', Traits: Hunter | Mover, Strength: 50, Health: 80, Speed: 4},
	Bison:   {Name: "Bison", Symbol: 'Z', Traits: Grazer | Mover, Strength: 40, Health: 100, Speed: 3},
	Sparrow: {Name: "Sparrow", Symbol: 'S', Traits: Grazer | Mover | Evasive, Strength: 10, Health: 15, Speed: 10, EvadeChance: 0.5},
	Hare:    {Name: "Hare", Symbol: 'H', Traits: Grazer | Mover | Evasive, Strength: 15, Health: 35, Speed: 7, EvadeChance: 0.3},
	RoeDeer: {Name: "RoeDeer", Symbol: 'D', Traits: Grazer | Mover, Strength: 25, Health: 55, Speed: 8},
}

// adjacentRange lists the four orthogonal neighbours.
var adjacentRange = []Offset{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
}

// extendedRange lists the cells two out along each axis, then the adjacent ring.
var extendedRange = []Offset{
	{-2, 0}, {2, 0}, {0, -2}, {0, 2},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
}

// Profile returns the species profile. Panics on an unknown species.
func (s Species) Profile() Profile {
	if s >= NumSpecies {
		panic(fmt.Sprintf("traits: unknown species %d", s))
	}
	return profiles[s]
}

// String returns the species name.
func (s Species) String() string {
	if s >= NumSpecies {
		return fmt.Sprintf("Species(%d)", s)
	}
	return profiles[s].Name
}

// AttackRange returns the offsets a hunter scans, in scan order.
// Non-hunters have no range.
func (s Species) AttackRange() []Offset {
	t := s.Profile().Traits
	switch {
	case !t.Has(Hunter):
		return nil
	case t.Has(FarSight):
		return extendedRange
	default:
		return adjacentRange
	}
}

// All returns every species in creation order (carnivores first).
func All() []Species {
	all := make([]Species, 0, NumSpecies)
	for s := Species(0); s < NumSpecies; s++ {
		all = append(all, s)
	}
	return all
}

// BySymbol looks a species up by its board symbol.
func BySymbol(r rune) (Species, bool) {
	for s, p := range profiles {
		if p.Symbol == r {
			return Species(s), true
		}
	}
	return 0, false
}

// ByName looks a species up by name.
func ByName(name string) (Species, bool) {
	for s, p := range profiles {
		if p.Name == name {
			return Species(s), true
		}
	}
	return 0, false
}
