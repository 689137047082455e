// Package game drives the turn-based simulation.
package game

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/telemetry"
	"github.com/pthm-cable/ekosystem/traits"
)

// Result labels for runs that do not end with a single surviving species.
const (
	NoSurvivors = "No survivors"
	Undecided   = "Undecided"
)

var (
	// ErrBoardFull is returned by Setup when there are fewer empty cells than creatures.
	ErrBoardFull = errors.New("not enough empty cells to place every creature")

	// ErrCellBlocked is returned by Spawn for a cell that is off-board or not walkable.
	ErrCellBlocked = errors.New("cell cannot hold a creature")

	// ErrUnknownEntity is returned for handles that are no longer alive.
	ErrUnknownEntity = errors.New("entity is not alive")
)

// Result is the outcome of a finished run.
type Result struct {
	Species   string // winning species, NoSurvivors or Undecided
	Turns     int    // turns completed before the run ended
	Survivors int    // live creatures at the end
}

// Record converts the result to its persisted two-column form.
func (r Result) Record() telemetry.ResultRecord {
	return telemetry.ResultRecord{Species: r.Species, Turns: r.Turns}
}

// Game holds the simulation state.
type Game struct {
	cfg    *config.Config
	rng    systems.RNG
	seed   int64
	logger *slog.Logger

	// ECS
	world        *ecs.World
	entityMapper *ecs.Map6[
		components.Position,
		components.Organism,
		components.Stats,
		components.Health,
		components.Bonuses,
		components.Effects,
	]
	entityFilter *ecs.Filter2[components.Organism, components.Health]

	// Component maps for direct access
	posMap     *ecs.Map[components.Position]
	orgMap     *ecs.Map[components.Organism]
	statsMap   *ecs.Map[components.Stats]
	healthMap  *ecs.Map[components.Health]
	bonusMap   *ecs.Map[components.Bonuses]
	effectsMap *ecs.Map[components.Effects]

	// Board and systems
	grid     *systems.Grid
	movement *systems.MovementSystem
	hunting  *systems.HuntingSystem
	vitality *systems.VitalitySystem

	// Population. roster owns creation order; carnivores is a view into it.
	roster     []ecs.Entity
	carnivores []ecs.Entity
	nextID     uint32

	turn   int
	done   bool
	result Result

	// Telemetry
	collector   *telemetry.Collector
	lifetime    *telemetry.LifetimeTracker
	bookmarks   *telemetry.BookmarkDetector
	perf        *telemetry.PerfCollector
	hallOfFame  *telemetry.HallOfFame
	output      *telemetry.OutputManager
	snapshotDir string
	lastStats   telemetry.TurnStats
}

// New creates a game with an empty board. Call Setup to fill and populate it,
// or Spawn creatures by hand for scripted scenarios.
func New(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := opts.Seed
	rng := opts.RNG
	if rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	world := ecs.NewWorld()
	grid := systems.NewGrid(cfg.Derived.BoardSize)
	feeding := systems.NewFeedingSystem(world, cfg.Consumption)

	g := &Game{
		cfg:    cfg,
		rng:    rng,
		seed:   seed,
		logger: logger,
		world:  world,
		entityMapper: ecs.NewMap6[
			components.Position,
			components.Organism,
			components.Stats,
			components.Health,
			components.Bonuses,
			components.Effects,
		](world),
		entityFilter: ecs.NewFilter2[components.Organism, components.Health](world),
		posMap:       ecs.NewMap[components.Position](world),
		orgMap:       ecs.NewMap[components.Organism](world),
		statsMap:     ecs.NewMap[components.Stats](world),
		healthMap:    ecs.NewMap[components.Health](world),
		bonusMap:     ecs.NewMap[components.Bonuses](world),
		effectsMap:   ecs.NewMap[components.Effects](world),

		grid:     grid,
		movement: systems.NewMovementSystem(world, grid, rng, feeding),
		hunting:  systems.NewHuntingSystem(world, grid, cfg.Poison, cfg.Abilities),
		vitality: systems.NewVitalitySystem(world),

		collector:   telemetry.NewCollector(),
		lifetime:    telemetry.NewLifetimeTracker(),
		bookmarks:   telemetry.NewBookmarkDetector(),
		perf:        telemetry.NewPerfCollector(50),
		hallOfFame:  telemetry.NewHallOfFame(cfg.HallOfFame),
		output:      opts.Output,
		snapshotDir: opts.SnapshotDir,
	}

	return g
}

// Setup fills the board, places PerSpecies creatures of every species on random
// empty cells and then lays the stone pattern over the remaining empty cells.
func (g *Game) Setup() error {
	g.grid.Fill(g.rng, systems.MixFromConfig(g.cfg.Resources))

	if err := g.spawnInitialPopulation(); err != nil {
		return err
	}

	g.grid.FillStones()
	g.bookmarks.Prime(g.sampleStats())

	g.logger.Info("setup complete",
		"board_size", g.grid.Size(),
		"per_species", g.cfg.Population.PerSpecies,
		"population", len(g.roster),
		"stones", g.grid.Count(systems.CellStone),
		"seed", g.seed,
	)
	return nil
}

// Grid returns the board.
func (g *Game) Grid() *systems.Grid {
	return g.grid
}

// Turn returns the number of completed turns.
func (g *Game) Turn() int {
	return g.turn
}

// Seed returns the seed of the run's random source (0 if an RNG was injected).
func (g *Game) Seed() int64 {
	return g.seed
}

// Roster returns the live creatures in creation order.
func (g *Game) Roster() []ecs.Entity {
	out := make([]ecs.Entity, len(g.roster))
	copy(out, g.roster)
	return out
}

// Carnivores returns the live hunters in creation order.
func (g *Game) Carnivores() []ecs.Entity {
	out := make([]ecs.Entity, len(g.carnivores))
	copy(out, g.carnivores)
	return out
}

// Done reports whether the run has ended.
func (g *Game) Done() bool {
	return g.done
}

// Result returns the final result once Done is true.
func (g *Game) Result() (Result, bool) {
	return g.result, g.done
}

// LastStats returns the statistics of the most recent turn.
func (g *Game) LastStats() telemetry.TurnStats {
	return g.lastStats
}

// RecentEvents returns up to n of the latest events, oldest first.
func (g *Game) RecentEvents(n int) []telemetry.Event {
	return g.collector.Recent(n)
}

// HallOfFame returns the ranking of notable creatures, filled when the run ends.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// Health returns a live creature's health.
func (g *Game) Health(e ecs.Entity) (int, bool) {
	if !g.world.Alive(e) {
		return 0, false
	}
	return g.healthMap.Get(e).Value, true
}

// Position returns a live creature's cell.
func (g *Game) Position(e ecs.Entity) (components.Position, bool) {
	if !g.world.Alive(e) {
		return components.Position{}, false
	}
	return *g.posMap.Get(e), true
}

// Species returns a live creature's species.
func (g *Game) Species(e ecs.Entity) (traits.Species, bool) {
	if !g.world.Alive(e) {
		return 0, false
	}
	return g.orgMap.Get(e).Species, true
}

// Effects returns a copy of a live creature's active effects.
func (g *Game) Effects(e ecs.Entity) []components.Effect {
	if !g.world.Alive(e) {
		return nil
	}
	active := g.effectsMap.Get(e).Active
	out := make([]components.Effect, len(active))
	copy(out, active)
	return out
}

// Stats returns a live creature's current strength and speed.
func (g *Game) Stats(e ecs.Entity) (components.Stats, bool) {
	if !g.world.Alive(e) {
		return components.Stats{}, false
	}
	return *g.statsMap.Get(e), true
}
