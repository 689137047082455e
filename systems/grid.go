package systems

import (
	"fmt"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
)

// CellKind is the state of a board cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellGrass
	CellBush
	CellMushroom
	CellStone
	CellOccupied
)

var cellSymbols = [...]rune{
	CellEmpty:    ' ',
	CellGrass:    ',',
	CellBush:     '@',
	CellMushroom: '*',
	CellStone:    'x',
	CellOccupied: '?',
}

var cellNames = [...]string{
	CellEmpty:    "empty",
	CellGrass:    "grass",
	CellBush:     "bush",
	CellMushroom: "mushroom",
	CellStone:    "stone",
	CellOccupied: "occupied",
}

// Symbol returns the board symbol of a terrain kind.
func (k CellKind) Symbol() rune {
	if int(k) >= len(cellSymbols) {
		return '?'
	}
	return cellSymbols[k]
}

// String returns the kind name.
func (k CellKind) String() string {
	if int(k) >= len(cellNames) {
		return fmt.Sprintf("CellKind(%d)", k)
	}
	return cellNames[k]
}

// IsResource reports whether the cell can be eaten.
func (k CellKind) IsResource() bool {
	return k == CellGrass || k == CellBush || k == CellMushroom
}

// Cell is one board cell. Occupant and Symbol are only set for CellOccupied.
type Cell struct {
	Kind     CellKind
	Occupant ecs.Entity
	Symbol   rune
}

// Rune returns what the cell shows on the board.
func (c Cell) Rune() rune {
	if c.Kind == CellOccupied {
		return c.Symbol
	}
	return c.Kind.Symbol()
}

// Mix is the initial board composition in whole percent.
type Mix struct {
	Grass, Bush, Mushroom, Empty int
}

// MixFromConfig converts the resource section of the config.
func MixFromConfig(r config.ResourcesConfig) Mix {
	return Mix{Grass: r.GrassPct, Bush: r.BushPct, Mushroom: r.MushroomPct, Empty: r.EmptyPct}
}

// Grid is the square board, stored row-major.
type Grid struct {
	cells []Cell
	size  int
}

// NewGrid creates an empty size x size board.
func NewGrid(size int) *Grid {
	return &Grid{
		cells: make([]Cell, size*size),
		size:  size,
	}
}

// Size returns the side length.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether (x, y) lies on the board.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

func (g *Grid) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: (%d,%d) outside %dx%d board", x, y, g.size, g.size))
	}
	return y*g.size + x
}

// CellAt returns the cell at (x, y). Panics off-board.
func (g *Grid) CellAt(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// SetCell overwrites the cell at (x, y). Panics off-board.
func (g *Grid) SetCell(x, y int, c Cell) {
	g.cells[g.index(x, y)] = c
}

// Occupy marks (x, y) with an entity, clearing any resource underneath.
func (g *Grid) Occupy(x, y int, e ecs.Entity, symbol rune) {
	g.SetCell(x, y, Cell{Kind: CellOccupied, Occupant: e, Symbol: symbol})
}

// Vacate empties (x, y).
func (g *Grid) Vacate(x, y int) {
	g.SetCell(x, y, Cell{Kind: CellEmpty})
}

// Walkable reports whether a creature may step onto (x, y):
// on the board and either empty or a resource. Stones and creatures block.
func (g *Grid) Walkable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	k := g.cells[y*g.size+x].Kind
	return k == CellEmpty || k.IsResource()
}

// Fill assigns every cell from the mix. Counts are truncated percentages of the
// total, any rounding remainder becomes empty, and the cell order is shuffled.
func (g *Grid) Fill(rng RNG, mix Mix) {
	total := len(g.cells)
	kinds := make([]CellKind, 0, total)
	appendN := func(k CellKind, pct int) {
		for i := 0; i < total*pct/100; i++ {
			kinds = append(kinds, k)
		}
	}
	appendN(CellGrass, mix.Grass)
	appendN(CellBush, mix.Bush)
	appendN(CellMushroom, mix.Mushroom)
	appendN(CellEmpty, mix.Empty)
	for len(kinds) < total {
		kinds = append(kinds, CellEmpty)
	}
	kinds = kinds[:total]

	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})

	for i, k := range kinds {
		g.cells[i] = Cell{Kind: k}
	}
}

// FillStones walks the board row-major and turns every other empty cell into
// stone, starting with the first empty cell found.
func (g *Grid) FillStones() {
	placeStone := true
	for i := range g.cells {
		if g.cells[i].Kind != CellEmpty {
			continue
		}
		if placeStone {
			g.cells[i] = Cell{Kind: CellStone}
		}
		placeStone = !placeStone
	}
}

// Count returns how many cells hold the given kind.
func (g *Grid) Count(kind CellKind) int {
	n := 0
	for _, c := range g.cells {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Positions returns every cell of the given kind in row-major order.
func (g *Grid) Positions(kind CellKind) []components.Position {
	var out []components.Position
	for i, c := range g.cells {
		if c.Kind == kind {
			out = append(out, components.Position{X: i % g.size, Y: i / g.size})
		}
	}
	return out
}

// Rows returns the board as one string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.size)
	var sb strings.Builder
	for y := 0; y < g.size; y++ {
		sb.Reset()
		for x := 0; x < g.size; x++ {
			sb.WriteRune(g.cells[y*g.size+x].Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}
