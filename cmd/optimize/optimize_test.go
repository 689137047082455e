package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/ekosystem/config"
)

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	assert.Equal(t, pv.DefaultVector(), pv.Encode(TunedFromConfig(cfg)))
	assert.InDeltaSlice(t, pv.DefaultVector(), pv.Denormalize(pv.Normalize(pv.DefaultVector())), 1e-9)
	assert.Equal(t, TunedFromConfig(cfg), pv.Decode(pv.DefaultVector()))

	require.NoError(t, pv.Decode(pv.DefaultVector()).Apply(cfg))
	assert.Equal(t, 25, cfg.Resources.EmptyPct)
}

func TestSpecNamesMatchLogColumns(t *testing.T) {
	header, err := gocsv.MarshalString(&[]EvalRecord{{}})
	require.NoError(t, err)
	for _, spec := range NewParamVector().Specs {
		assert.Contains(t, header, spec.Name)
	}
}

func TestDecodeClampsAndKeepsEmptyShare(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	over := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		over[i] = spec.Max + 10
	}
	tuned := pv.Decode(over)
	assert.Equal(t, 80, tuned.GrassPct)
	assert.Equal(t, 15, tuned.PoisonDamage)

	require.NoError(t, tuned.Apply(cfg))
	r := cfg.Resources
	assert.Equal(t, minEmptyPct, r.EmptyPct)
	assert.Equal(t, 30, r.BushPct)
	assert.Equal(t, 20, r.MushroomPct)
	assert.Equal(t, 35, r.GrassPct)
	assert.Equal(t, 15, cfg.Poison.DamagePerTurn)
}

func TestWinnerBalance(t *testing.T) {
	assert.Zero(t, winnerBalance(nil))
	assert.Zero(t, winnerBalance(map[string]int{"Wolf": 8}))
	assert.InDelta(t, 1.0, winnerBalance(map[string]int{"Wolf": 1, "Bear": 1, "Hare": 1, "Bison": 1}), 1e-9)

	skewed := winnerBalance(map[string]int{"Wolf": 6, "Bear": 1, "Hare": 1})
	assert.Greater(t, skewed, 0.0)
	assert.Less(t, skewed, 1.0)
}

func TestFormatWinners(t *testing.T) {
	assert.Empty(t, formatWinners(nil))
	assert.Equal(t, "Wolf=5 Bear=2 Hare=2", formatWinners(map[string]int{"Hare": 2, "Wolf": 5, "Bear": 2}))
}

func TestEvaluateRunsEverySeed(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, config.Defaults(), EvalOptions{Seeds: 3, SeedBase: 1, MaxTurns: 200})
	assert.Equal(t, []int64{1, 2, 3}, fe.seeds)

	ev := fe.Evaluate(pv.DefaultVector())
	require.True(t, ev.Valid())
	assert.LessOrEqual(t, ev.Fitness, 0.0)
	assert.GreaterOrEqual(t, ev.Fitness, -1.0)

	total := 0
	for _, n := range ev.Winners {
		total += n
	}
	assert.Equal(t, 3, total)
	assert.NotNil(t, ev.hallOfFame)
}

func TestTunerLogsAndReports(t *testing.T) {
	dir := t.TempDir()
	pv := NewParamVector()
	base := config.Defaults()
	fe := NewFitnessEvaluator(pv, base, EvalOptions{Seeds: 2, SeedBase: 5, MaxTurns: 100})

	var out bytes.Buffer
	tn, err := newTuner(pv, fe, 2, filepath.Join(dir, "optimize_log.csv"), &out)
	require.NoError(t, err)

	start := pv.Normalize(pv.DefaultVector())
	first := tn.objective(start)
	tn.objective(start)
	require.NoError(t, tn.Close())
	assert.False(t, math.IsInf(first, 1))
	assert.Contains(t, out.String(), "eval 2/2")
	assert.Contains(t, out.String(), "balance=")

	f, err := os.Open(filepath.Join(dir, "optimize_log.csv"))
	require.NoError(t, err)
	defer f.Close()
	var rows []EvalRecord
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Eval)
	assert.Equal(t, rows[0].Fitness, rows[1].Fitness, "same candidate and seeds score the same")
	assert.Equal(t, 60, rows[0].GrassPct)
	assert.NotEmpty(t, rows[0].Winners)

	out.Reset()
	require.NoError(t, tn.report(base, dir))
	assert.Contains(t, out.String(), "grass_pct")
	assert.FileExists(t, filepath.Join(dir, "best_config.yaml"))
	assert.FileExists(t, filepath.Join(dir, "hall_of_fame.json"))

	loaded, err := config.Load(filepath.Join(dir, "best_config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 60, loaded.Resources.GrassPct)
}

func TestReportWithoutValidCandidate(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, config.Defaults(), EvalOptions{Seeds: 1, MaxTurns: 10})
	tn, err := newTuner(pv, fe, 1, filepath.Join(t.TempDir(), "log.csv"), &bytes.Buffer{})
	require.NoError(t, err)
	defer tn.Close()

	assert.Error(t, tn.report(config.Defaults(), t.TempDir()))
}
