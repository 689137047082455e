package components

import "github.com/pthm-cable/ekosystem/traits"

// Position represents an entity's board cell.
type Position struct {
	X, Y int
}

// Add returns the position shifted by an offset.
func (p Position) Add(o traits.Offset) Position {
	return Position{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Neighbors returns the four orthogonal neighbours (possibly off-board).
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		{p.X - 1, p.Y},
		{p.X + 1, p.Y},
		{p.X, p.Y - 1},
		{p.X, p.Y + 1},
	}
}
