package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/traits"
)

func init() {
	config.MustInit("")
}

// fixedRNG never shuffles, so neighbours are tried left, right, up, down.
type fixedRNG struct {
	f     float64
	calls int
}

func (r *fixedRNG) Intn(int) int { r.calls++; return 0 }
func (r *fixedRNG) Float64() float64 {
	r.calls++
	return r.f
}
func (r *fixedRNG) Shuffle(int, func(i, j int)) { r.calls++ }

type testWorld struct {
	world  *ecs.World
	grid   *Grid
	mapper *ecs.Map6[components.Position, components.Organism, components.Stats, components.Health, components.Bonuses, components.Effects]
	pos    *ecs.Map[components.Position]
	org    *ecs.Map[components.Organism]
	stats  *ecs.Map[components.Stats]
	health *ecs.Map[components.Health]
	bonus  *ecs.Map[components.Bonuses]
	effect *ecs.Map[components.Effects]
}

func newTestWorld(size int) *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		world:  w,
		grid:   NewGrid(size),
		mapper: ecs.NewMap6[components.Position, components.Organism, components.Stats, components.Health, components.Bonuses, components.Effects](w),
		pos:    ecs.NewMap[components.Position](w),
		org:    ecs.NewMap[components.Organism](w),
		stats:  ecs.NewMap[components.Stats](w),
		health: ecs.NewMap[components.Health](w),
		bonus:  ecs.NewMap[components.Bonuses](w),
		effect: ecs.NewMap[components.Effects](w),
	}
}

func (tw *testWorld) spawn(s traits.Species, x, y int) ecs.Entity {
	p := s.Profile()
	pos := components.Position{X: x, Y: y}
	org := components.Organism{Species: s, Symbol: p.Symbol}
	stats := components.NewStats(p.Strength, p.Speed)
	health := components.Health{Value: p.Health}
	bonuses := components.NewBonuses()
	effects := components.Effects{}
	e := tw.mapper.NewEntity(&pos, &org, &stats, &health, &bonuses, &effects)
	tw.grid.Occupy(x, y, e, p.Symbol)
	return e
}

// kill removes a dead entity from the grid and the world.
func (tw *testWorld) kill(e ecs.Entity) {
	p := tw.pos.Get(e)
	tw.grid.Vacate(p.X, p.Y)
	tw.world.RemoveEntity(e)
}

// stoneAllBut fills the board with stone except the listed cells.
func (tw *testWorld) stoneAllBut(open ...components.Position) {
	size := tw.grid.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			tw.grid.SetCell(x, y, Cell{Kind: CellStone})
		}
	}
	for _, p := range open {
		tw.grid.Vacate(p.X, p.Y)
	}
}
