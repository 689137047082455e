package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/telemetry"
	"github.com/pthm-cable/ekosystem/telemetry/mocks"
	"github.com/pthm-cable/ekosystem/traits"
)

func TestSetupPlacesEveryone(t *testing.T) {
	g := newTestGame(t, nil)
	require.NoError(t, g.Setup())

	assert.Len(t, g.Roster(), int(traits.NumSpecies))
	assert.Len(t, g.Carnivores(), 4)
	assert.Equal(t, len(g.Roster()), g.Grid().Count(systems.CellOccupied))
	assert.Positive(t, g.Grid().Count(systems.CellStone))

	for i, e := range g.Roster() {
		s, ok := g.Species(e)
		require.True(t, ok)
		assert.Equal(t, traits.All()[i], s, "roster keeps creation order")
	}
	assert.Equal(t, int(traits.NumSpecies), g.sampleStats().Population)
}

func TestSetupBoardFull(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) { c.Population.PerSpecies = 20 })
	err := g.Setup()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBoardFull)
	assert.Empty(t, g.Roster())
}

func TestSpawnRejectsBlockedCells(t *testing.T) {
	g := newTestGame(t, nil)
	_, err := g.Spawn(traits.Wolf, 2, 2)
	require.NoError(t, err)

	_, err = g.Spawn(traits.Bison, 2, 2)
	assert.ErrorIs(t, err, ErrCellBlocked, "occupied")

	_, err = g.Spawn(traits.Bison, -1, 0)
	assert.ErrorIs(t, err, ErrCellBlocked, "off board")

	g.Grid().SetCell(3, 3, systems.Cell{Kind: systems.CellStone})
	_, err = g.Spawn(traits.Bison, 3, 3)
	assert.ErrorIs(t, err, ErrCellBlocked, "stone")

	_, err = g.Spawn(traits.NumSpecies, 5, 5)
	assert.Error(t, err)
}

func TestSpawnOnResourceReplacesIt(t *testing.T) {
	g := newTestGame(t, nil)
	g.Grid().SetCell(0, 0, systems.Cell{Kind: systems.CellMushroom})

	e, err := g.Spawn(traits.Hare, 0, 0)
	require.NoError(t, err)

	cell := g.Grid().CellAt(0, 0)
	assert.Equal(t, systems.CellOccupied, cell.Kind)
	assert.Equal(t, e, cell.Occupant)
	assert.Equal(t, 'H', cell.Rune())
}

func TestBoxedPopulationDoesNotTerminate(t *testing.T) {
	g, entities := boxedGame(t, nil)
	before := g.Grid().Rows()

	for turn := 0; turn < 5; turn++ {
		assert.False(t, g.Step(), "turn %d", turn)
	}

	assert.Equal(t, 5, g.Turn())
	assert.False(t, g.Done())
	assert.Equal(t, int(traits.NumSpecies), g.LastStats().SpeciesAlive)
	assert.Equal(t, before, g.Grid().Rows())
	for i, e := range entities {
		pos, ok := g.Position(e)
		require.True(t, ok)
		assert.Equal(t, boxedCells[i], pos)
	}
}

func TestOnlyMoversWalk(t *testing.T) {
	g := newTestGame(t, nil)
	entities := spawnAt(t, g, []traits.Species{traits.Bison, traits.Hare},
		[]components.Position{{X: 5, Y: 5}, {X: 1, Y: 1}})
	bison, hare := entities[0], entities[1]
	g.orgMap.Get(bison).Traits &^= traits.Mover

	assert.False(t, g.Step())

	pos, ok := g.Position(bison)
	require.True(t, ok)
	assert.Equal(t, components.Position{X: 5, Y: 5}, pos)
	assert.False(t, g.orgMap.Get(bison).HasPrev)
	assert.Equal(t, bison, g.Grid().CellAt(5, 5).Occupant)

	assert.True(t, g.orgMap.Get(hare).HasPrev, "hare still walks")
}

func TestUnrecordedDeathPanics(t *testing.T) {
	g, entities := boxedGame(t, nil)
	g.lifetime.MarkDead(g.orgMap.Get(entities[0]).ID, 0)

	assert.Panics(t, func() { g.Step() })
}

func TestScriptedDamageEndsOnTurn(t *testing.T) {
	g, entities := boxedGame(t, nil)
	for i := 0; i < 12; i++ {
		require.False(t, g.Step())
	}
	require.Equal(t, 12, g.Turn())

	for _, e := range entities[1:] {
		dead, err := g.Damage(e, 1000)
		require.NoError(t, err)
		assert.True(t, dead)
	}
	assert.Len(t, g.Roster(), 1)
	assert.Len(t, g.Carnivores(), 1)
	assert.Equal(t, 1, g.Grid().Count(systems.CellOccupied))

	require.True(t, g.Step())
	result, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, Result{Species: "Wolf", Turns: 12, Survivors: 1}, result)

	// Further steps are no-ops
	assert.True(t, g.Step())
	assert.Equal(t, 12, g.Turn())
}

func TestDamageUnknownEntity(t *testing.T) {
	g, entities := boxedGame(t, nil)
	_, err := g.Damage(entities[0], 1000)
	require.NoError(t, err)

	_, err = g.Damage(entities[0], 1)
	assert.ErrorIs(t, err, ErrUnknownEntity)

	_, ok := g.Health(entities[0])
	assert.False(t, ok)
}

func TestDamageBelowLethal(t *testing.T) {
	g, entities := boxedGame(t, nil)
	dead, err := g.Damage(entities[4], 10)
	require.NoError(t, err)
	assert.False(t, dead)

	h, ok := g.Health(entities[4])
	require.True(t, ok)
	assert.Equal(t, traits.Bison.Profile().Health-10, h)
}

func TestPoisonKillsOnFirstLethalTick(t *testing.T) {
	g := newTestGame(t, nil)
	viper, err := g.Spawn(traits.Viper, 1, 1)
	require.NoError(t, err)
	bison, err := g.Spawn(traits.Bison, 2, 1)
	require.NoError(t, err)
	stoneEmptyCells(g)

	// The opening bite leaves the bison on 3 health
	g.healthMap.Get(bison).Value = traits.Viper.Profile().Strength + 3

	require.False(t, g.Step())
	h, ok := g.Health(bison)
	require.True(t, ok)
	assert.Equal(t, 3, h)
	require.Len(t, g.Effects(bison), 1)
	assert.Equal(t, components.Effect{DamagePerTurn: 5, Remaining: 3}, g.Effects(bison)[0])
	assert.Equal(t, 1, g.LastStats().Attacks)

	require.True(t, g.Step())
	_, ok = g.Health(bison)
	assert.False(t, ok, "removed on the first tick that brings health to zero")
	assert.Equal(t, systems.CellEmpty, g.Grid().CellAt(2, 1).Kind)
	assert.Equal(t, 1, g.LastStats().EffectDeaths)
	assert.Equal(t, 1, g.LastStats().PoisonTicks)

	result, _ := g.Result()
	assert.Equal(t, "Viper", result.Species)
	assert.Equal(t, 1, result.Turns)
	_, alive := g.Health(viper)
	assert.True(t, alive)
}

func TestHuntingRemovesTargetSameTurn(t *testing.T) {
	g := newTestGame(t, nil)
	_, err := g.Spawn(traits.Bear, 1, 1)
	require.NoError(t, err)
	hare, err := g.Spawn(traits.Hare, 1, 2)
	require.NoError(t, err)
	_, err = g.Spawn(traits.Bison, 8, 8)
	require.NoError(t, err)
	stoneEmptyCells(g)

	require.False(t, g.Step())
	_, ok := g.Health(hare)
	assert.False(t, ok)
	assert.Equal(t, 1, g.LastStats().Kills)
	assert.Len(t, g.Roster(), 2)
	assert.Equal(t, 2, g.Grid().Count(systems.CellOccupied))
}

func TestTotalExtinction(t *testing.T) {
	g := newTestGame(t, nil)
	wolf, err := g.Spawn(traits.Wolf, 0, 0)
	require.NoError(t, err)
	bison, err := g.Spawn(traits.Bison, 5, 5)
	require.NoError(t, err)

	_, err = g.Damage(wolf, 1000)
	require.NoError(t, err)
	_, err = g.Damage(bison, 1000)
	require.NoError(t, err)

	require.True(t, g.Step())
	result, _ := g.Result()
	assert.Equal(t, NoSurvivors, result.Species)
	assert.Zero(t, result.Turns)
	assert.Zero(t, result.Survivors)
}

func TestMaxTurnsUndecided(t *testing.T) {
	g, _ := boxedGame(t, func(c *config.Config) { c.Turn.MaxTurns = 3 })

	assert.False(t, g.Step())
	assert.False(t, g.Step())
	assert.True(t, g.Step())

	result, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, Undecided, result.Species)
	assert.Equal(t, 3, result.Turns)
	assert.Equal(t, int(traits.NumSpecies), result.Survivors)
}

func TestRandomRunKeepsBoardConsistent(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 99} {
		cfg := config.Defaults()
		cfg.Population.PerSpecies = 2
		g := New(Options{Config: cfg, Seed: seed, Logger: quietLogger()})
		require.NoError(t, g.Setup())

		for i := 0; i < 300 && !g.Step(); i++ {
			size := g.Grid().Size()
			for _, e := range g.Roster() {
				pos, ok := g.Position(e)
				require.True(t, ok)
				assert.True(t, pos.X >= 0 && pos.X < size && pos.Y >= 0 && pos.Y < size)
				h, _ := g.Health(e)
				assert.Positive(t, h)
			}
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() (Result, []string) {
		g := New(Options{Config: config.Defaults(), Seed: 1234, Logger: quietLogger()})
		require.NoError(t, g.Setup())
		for i := 0; i < 200 && !g.Step(); i++ {
		}
		r, _ := g.Result()
		return r, g.Grid().Rows()
	}

	r1, board1 := run()
	r2, board2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, board1, board2)
}

func TestRunStopsOnCancel(t *testing.T) {
	g, _ := boxedGame(t, func(c *config.Config) { c.Turn.PacingMS = 50 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	turns := 0
	_, err := g.Run(ctx, func(*Game) {
		turns++
		if turns == 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, turns)
	assert.False(t, g.Done())
}

func TestRunToCompletion(t *testing.T) {
	g, entities := boxedGame(t, func(c *config.Config) { c.Turn.PacingMS = 0 })
	for _, e := range entities[:7] {
		_, err := g.Damage(e, 1000)
		require.NoError(t, err)
	}

	result, err := g.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "RoeDeer", result.Species)
	assert.Zero(t, result.Turns)
}

func TestPersistFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	failing := mocks.NewMockResultSink(ctrl)
	ok := mocks.NewMockResultSink(ctrl)

	result := Result{Species: "Bear", Turns: 41, Survivors: 2}
	want := telemetry.ResultRecord{Species: "Bear", Turns: 41}
	failing.EXPECT().Append(gomock.Any(), want).Return(errors.New("disk full"))
	ok.EXPECT().Append(gomock.Any(), want).Return(nil)

	err := Persist(context.Background(), result, failing, nil, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, Result{Species: "Bear", Turns: 41, Survivors: 2}, result)
}

func TestPersistToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	log := telemetry.NewCSVResultLog(path)

	require.NoError(t, Persist(context.Background(), Result{Species: "Wolf", Turns: 3}, log))
	require.NoError(t, Persist(context.Background(), Result{Species: NoSurvivors, Turns: 9}, log))

	records, err := log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []telemetry.ResultRecord{{Species: "Wolf", Turns: 3}, {Species: NoSurvivors, Turns: 9}}, records)
}

func TestSnapshotReflectsRoster(t *testing.T) {
	g, entities := boxedGame(t, nil)
	g.bonusMap.Get(entities[5]).Grant(components.BonusSpeed, 2, 3)

	snap := g.Snapshot()
	assert.Equal(t, telemetry.SnapshotVersion, snap.Version)
	assert.Equal(t, 10, snap.BoardSize)
	assert.Len(t, snap.Board, 10)
	require.Len(t, snap.Entities, int(traits.NumSpecies))

	sparrow := snap.Entities[5]
	assert.Equal(t, "Sparrow", sparrow.Species)
	assert.Equal(t, "S", sparrow.Symbol)
	assert.Equal(t, 7, sparrow.X)
	assert.Equal(t, 4, sparrow.Y)
	assert.Equal(t, []telemetry.BonusState{{Kind: "speed", Magnitude: 2, Remaining: 3}}, sparrow.Bonuses)
	require.NotNil(t, sparrow.Lifetime)
	assert.Equal(t, -1, sparrow.Lifetime.DeathTurn)
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(filepath.Join(dir, "telemetry"))
	require.NoError(t, err)

	cfg := config.Defaults()
	g := New(Options{
		Config:      cfg,
		Seed:        5,
		Logger:      quietLogger(),
		Output:      out,
		SnapshotDir: filepath.Join(dir, "snapshots"),
	})
	_, err = g.Spawn(traits.Wolf, 0, 0)
	require.NoError(t, err)
	_, err = g.Spawn(traits.Sparrow, 9, 9)
	require.NoError(t, err)
	stoneEmptyCells(g)
	require.False(t, g.Step())

	_, err = g.Damage(g.Roster()[1], 1000)
	require.NoError(t, err)
	require.True(t, g.Step())
	require.NoError(t, g.Close())

	for _, name := range []string{"turns.csv", "perf.csv", "bookmarks.csv", "hall_of_fame.json"} {
		assert.FileExists(t, filepath.Join(dir, "telemetry", name))
	}
	snap, err := telemetry.LoadSnapshot(filepath.Join(dir, "snapshots", "snapshot_1_final.json"))
	require.NoError(t, err)
	require.NotNil(t, snap.Result)
	assert.Equal(t, telemetry.ResultRecord{Species: "Wolf", Turns: 1}, *snap.Result)

	entries, err := os.ReadDir(filepath.Join(dir, "snapshots"))
	require.NoError(t, err)
	assert.Greater(t, len(entries), 1, "extinction bookmarks snapshot too")
}

func TestHallOfFameRanksKillers(t *testing.T) {
	g := newTestGame(t, nil)
	_, err := g.Spawn(traits.Wolf, 1, 1)
	require.NoError(t, err)
	_, err = g.Spawn(traits.Hare, 1, 2)
	require.NoError(t, err)
	stoneEmptyCells(g)

	require.False(t, g.Step(), "35 health survives one 30 strength bite")
	require.True(t, g.Step())

	result, _ := g.Result()
	assert.Equal(t, Result{Species: "Wolf", Turns: 1, Survivors: 1}, result)

	top := g.HallOfFame().Top(traits.Wolf)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].Kills)
	assert.Equal(t, 60, top[0].DamageDealt)
	assert.Empty(t, g.HallOfFame().Top(traits.Hare))

	events := g.RecentEvents(3)
	require.NotEmpty(t, events)
	assert.Equal(t, telemetry.EventKill, events[len(events)-1].Type)
}
