package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/game"
	"github.com/pthm-cable/ekosystem/telemetry"
	"github.com/pthm-cable/ekosystem/traits"
)

// EvalOptions controls how each candidate is played.
type EvalOptions struct {
	Seeds    int   // runs per candidate
	SeedBase int64 // first seed; runs use SeedBase..SeedBase+Seeds-1
	MaxTurns int   // per-run cap, capped runs are undecided
}

// Evaluation is the outcome of playing one candidate on every seed.
type Evaluation struct {
	Tuned   Tuned
	Fitness float64 // lower is better
	Balance float64 // normalized entropy of the winners
	Quality float64 // mean per-run quality
	Winners map[string]int

	hallOfFame *telemetry.HallOfFame // from the best-quality run
}

// Valid reports whether the candidate produced a playable config.
func (e Evaluation) Valid() bool {
	return !math.IsInf(e.Fitness, 1)
}

// FitnessEvaluator plays candidates headless and scores them.
type FitnessEvaluator struct {
	params *ParamVector
	base   *config.Config
	opts   EvalOptions
	seeds  []int64
	logger *slog.Logger
}

// NewFitnessEvaluator creates an evaluator over the seeds described by opts.
func NewFitnessEvaluator(params *ParamVector, base *config.Config, opts EvalOptions) *FitnessEvaluator {
	if opts.Seeds < 1 {
		opts.Seeds = 1
	}
	seeds := make([]int64, opts.Seeds)
	for i := range seeds {
		seeds[i] = opts.SeedBase + int64(i)
	}
	return &FitnessEvaluator{
		params: params,
		base:   base,
		opts:   opts,
		seeds:  seeds,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// runResult holds the results from a single simulation run.
type runResult struct {
	result     game.Result
	turnStats  []telemetry.TurnStats
	hallOfFame *telemetry.HallOfFame
}

// Evaluate scores raw parameter values. A good configuration lets every
// species win some of the time and keeps several species alive for a while.
func (fe *FitnessEvaluator) Evaluate(raw []float64) Evaluation {
	ev := Evaluation{Tuned: fe.params.Decode(raw), Fitness: math.Inf(1)}
	cfg := fe.runConfig()
	if err := ev.Tuned.Apply(cfg); err != nil {
		return ev
	}

	// Every game owns its world and RNG; cfg is only read.
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	ev.Winners = make(map[string]int)
	qualities := make([]float64, 0, len(results))
	bestQuality := -1.0
	for _, r := range results {
		if r == nil {
			continue
		}
		ev.Winners[r.result.Species]++
		q := fe.computeQuality(r)
		qualities = append(qualities, q)
		if q > bestQuality {
			bestQuality, ev.hallOfFame = q, r.hallOfFame
		}
	}
	if len(qualities) == 0 {
		return ev
	}

	ev.Balance = winnerBalance(ev.Winners)
	ev.Quality = stat.Mean(qualities, nil)
	ev.Fitness = -(qualityWeightBalance*ev.Balance + qualityWeightRun*ev.Quality)
	return ev
}

// runSimulation plays one seed to its end or to the turn cap.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	g := game.New(game.Options{Config: cfg, Seed: seed, Logger: fe.logger})
	if err := g.Setup(); err != nil {
		return nil
	}

	r := &runResult{}
	for !g.Step() {
		r.turnStats = append(r.turnStats, g.LastStats())
	}
	r.turnStats = append(r.turnStats, g.LastStats())
	r.result, _ = g.Result()
	r.hallOfFame = g.HallOfFame()
	return r
}

// runConfig copies the base config with the turn cap applied and pacing off.
func (fe *FitnessEvaluator) runConfig() *config.Config {
	cfg := *fe.base
	cfg.Turn.MaxTurns = fe.opts.MaxTurns
	cfg.Turn.PacingMS = 0
	return &cfg
}

// Fitness and quality component weights.
const (
	qualityWeightBalance = 0.6
	qualityWeightRun     = 0.4

	qualityWeightLength    = 0.5
	qualityWeightDiversity = 0.5
)

// computeQuality scores one run in [0, 1]: decided runs that are neither
// instant nor stuck score on length, and diversity rewards slow extinctions.
func (fe *FitnessEvaluator) computeQuality(r *runResult) float64 {
	if len(r.turnStats) == 0 {
		return 0
	}

	length := 0.0
	if r.result.Species != game.Undecided && r.result.Species != game.NoSurvivors && fe.opts.MaxTurns > 0 {
		// Peaks at a quarter of the cap
		x := float64(r.result.Turns) / float64(fe.opts.MaxTurns)
		length = math.Exp(-math.Pow((x-0.25)/0.2, 2))
	}

	alive := make([]float64, len(r.turnStats))
	for i, s := range r.turnStats {
		alive[i] = float64(s.SpeciesAlive) / float64(traits.NumSpecies)
	}
	diversity := stat.Mean(alive, nil)

	return clamp01(qualityWeightLength*length + qualityWeightDiversity*diversity)
}

// winnerBalance is the normalized entropy of the winner distribution over the
// species: 1 when wins are spread evenly, 0 when one label takes every run.
// Runs without a single winner count as their own labels.
func winnerBalance(winners map[string]int) float64 {
	total := 0
	for _, n := range winners {
		total += n
	}
	if total == 0 {
		return 0
	}
	p := make([]float64, 0, len(winners))
	for _, n := range winners {
		p = append(p, float64(n)/float64(total))
	}
	maxEntropy := math.Log(math.Min(float64(total), float64(traits.NumSpecies)))
	if maxEntropy == 0 {
		return 0
	}
	return clamp01(stat.Entropy(p) / maxEntropy)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
