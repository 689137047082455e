package systems

// RNG is the interface for random number generation.
// *rand.Rand satisfies it; the simulation threads a single instance
// through every system so a seed reproduces a run end to end.
type RNG interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Resource is static catalog metadata for a consumable cell type.
// What eating it does lives in the feeding system, not here.
type Resource struct {
	Kind   CellKind
	Name   string
	Symbol rune
}

var catalog = []Resource{
	{Kind: CellGrass, Name: "Grass", Symbol: CellGrass.Symbol()},
	{Kind: CellBush, Name: "Fruit bush", Symbol: CellBush.Symbol()},
	{Kind: CellMushroom, Name: "Mushroom", Symbol: CellMushroom.Symbol()},
}

// Catalog returns every consumable resource.
func Catalog() []Resource {
	out := make([]Resource, len(catalog))
	copy(out, catalog)
	return out
}

// ResourceFor returns the catalog entry for a cell kind.
func ResourceFor(kind CellKind) (Resource, bool) {
	for _, r := range catalog {
		if r.Kind == kind {
			return r, true
		}
	}
	return Resource{}, false
}
