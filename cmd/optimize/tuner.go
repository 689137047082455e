package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ekosystem/config"
)

// EvalRecord is one optimize_log.csv row.
type EvalRecord struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	Balance float64 `csv:"balance"`
	Quality float64 `csv:"quality"`
	Winners string  `csv:"winners"`
	Tuned
}

// tuner tracks a search in progress: it logs every evaluation, prints
// progress and remembers the best candidate.
type tuner struct {
	params   *ParamVector
	eval     *FitnessEvaluator
	maxEvals int
	out      io.Writer

	log           *os.File
	headerWritten bool

	count   int
	best    Evaluation
	hasBest bool
	start   time.Time
}

func newTuner(params *ParamVector, eval *FitnessEvaluator, maxEvals int, logPath string, out io.Writer) (*tuner, error) {
	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", logPath, err)
	}
	return &tuner{
		params:   params,
		eval:     eval,
		maxEvals: maxEvals,
		out:      out,
		log:      f,
		best:     Evaluation{Fitness: math.Inf(1)},
		start:    time.Now(),
	}, nil
}

// objective is the function handed to the optimizer; x is in search space.
func (t *tuner) objective(x []float64) float64 {
	ev := t.eval.Evaluate(t.params.Denormalize(x))
	t.count++
	if ev.Valid() && ev.Fitness < t.best.Fitness {
		t.best, t.hasBest = ev, true
	}
	if err := t.record(ev); err != nil {
		fmt.Fprintf(t.out, "warning: %v\n", err)
	}
	t.progress(ev)
	return ev.Fitness
}

func (t *tuner) record(ev Evaluation) error {
	rows := []EvalRecord{{
		Eval:    t.count,
		Fitness: ev.Fitness,
		Balance: ev.Balance,
		Quality: ev.Quality,
		Winners: formatWinners(ev.Winners),
		Tuned:   ev.Tuned,
	}}
	if !t.headerWritten {
		t.headerWritten = true
		return gocsv.Marshal(&rows, t.log)
	}
	return gocsv.MarshalWithoutHeaders(&rows, t.log)
}

func (t *tuner) progress(ev Evaluation) {
	elapsed := time.Since(t.start)
	eta := time.Duration(t.maxEvals-t.count) * (elapsed / time.Duration(t.count))
	fmt.Fprintf(t.out, "eval %d/%d fitness=%.3f balance=%.2f winners[%s] best=%.3f elapsed=%s eta=%s\n",
		t.count, t.maxEvals, ev.Fitness, ev.Balance, formatWinners(ev.Winners), t.best.Fitness,
		elapsed.Round(time.Second), eta.Round(time.Second))
}

// report prints the best candidate against the defaults and writes
// best_config.yaml and hall_of_fame.json into dir.
func (t *tuner) report(base *config.Config, dir string) error {
	fmt.Fprintf(t.out, "\n%d evaluations in %s\n", t.count, time.Since(t.start).Round(time.Second))
	if !t.hasBest {
		return fmt.Errorf("no candidate produced a valid config")
	}
	best := t.best
	fmt.Fprintf(t.out, "best fitness %.3f, balance %.2f, quality %.2f\n", best.Fitness, best.Balance, best.Quality)
	fmt.Fprintf(t.out, "winners: %s\n\n", formatWinners(best.Winners))

	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "param\tdefault\tbest")
	defaults := t.params.DefaultVector()
	bestValues := t.params.Encode(best.Tuned)
	for i, spec := range t.params.Specs {
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\n", spec.Name, defaults[i], bestValues[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	cfg := *base
	if err := best.Tuned.Apply(&cfg); err != nil {
		return fmt.Errorf("best parameters: %w", err)
	}
	cfgPath := filepath.Join(dir, "best_config.yaml")
	if err := cfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Fprintf(t.out, "\nbest config saved to %s\n", cfgPath)

	if best.hallOfFame != nil {
		data, err := best.hallOfFame.MarshalJSON()
		if err != nil {
			return fmt.Errorf("marshaling hall of fame: %w", err)
		}
		hofPath := filepath.Join(dir, "hall_of_fame.json")
		if err := os.WriteFile(hofPath, data, 0644); err != nil {
			return fmt.Errorf("writing hall of fame: %w", err)
		}
		fmt.Fprintf(t.out, "hall of fame saved to %s\n", hofPath)
	}
	return nil
}

func (t *tuner) Close() error {
	return t.log.Close()
}

// formatWinners renders win counts most-wins first, e.g. "Wolf=5 Bear=3".
func formatWinners(winners map[string]int) string {
	names := make([]string, 0, len(winners))
	for name := range winners {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if winners[names[i]] != winners[names[j]] {
			return winners[names[i]] > winners[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, winners[name])
	}
	return strings.Join(parts, " ")
}
