package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/game"
	"github.com/pthm-cable/ekosystem/telemetry"
)

var batchFlags struct {
	runs    int
	workers int
	turnCap int
	out     string
	record  bool
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many seeds headless and summarize the winners",
	Long: `Run consecutive seeds starting at --seed (1 when unset) without pacing, in
parallel. Each run is written to a CSV and the winners are summarized.
Runs are capped at --turn-cap turns unless --max-turns or the config sets a cap.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchFlags.runs, "runs", 100, "Number of runs")
	batchCmd.Flags().IntVar(&batchFlags.workers, "workers", runtime.NumCPU(), "Runs in flight at once")
	batchCmd.Flags().IntVar(&batchFlags.turnCap, "turn-cap", defaultBatchTurnCap, "Turn cap applied when no max_turns is configured")
	batchCmd.Flags().StringVar(&batchFlags.out, "out", "batch.csv", "Per-run CSV output (empty = none)")
	batchCmd.Flags().BoolVar(&batchFlags.record, "record", false, "Also append every result to the result log")
	rootCmd.AddCommand(batchCmd)
}

// defaultBatchTurnCap bounds runs that would otherwise never end, such as a
// board left with only grazers of several species.
const defaultBatchTurnCap = 2000

// BatchRow is one run of a batch.
type BatchRow struct {
	Seed      int64  `csv:"seed"`
	Species   string `csv:"species"`
	Turns     int    `csv:"turns"`
	Survivors int    `csv:"survivors"`
	Error     string `csv:"error"`
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr)

	base := runFlags.seed
	if base == 0 {
		base = 1
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rows, err := batchRun(ctx, cfg, base, batchFlags.runs, batchFlags.workers, batchFlags.turnCap)
	if err != nil {
		return err
	}

	if batchFlags.out != "" {
		f, err := os.Create(batchFlags.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", batchFlags.out, err)
		}
		if err := gocsv.MarshalFile(&rows, f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", batchFlags.out, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	records := make([]telemetry.ResultRecord, 0, len(rows))
	for _, r := range rows {
		if r.Error != "" {
			logger.Warn("run failed", "seed", r.Seed, "error", r.Error)
			continue
		}
		result := game.Result{Species: r.Species, Turns: r.Turns, Survivors: r.Survivors}
		records = append(records, result.Record())
		if batchFlags.record {
			if err := persist(ctx, cfg, result, logger); err != nil {
				return err
			}
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "species\twins\tmean turns\tstd turns\tmin\tmax")
	for _, s := range telemetry.SummarizeResults(records) {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%d\t%d\n", s.Species, s.Wins, s.MeanTurns, s.StdTurns, s.MinTurns, s.MaxTurns)
	}
	return w.Flush()
}

// batchRun plays seeds base..base+runs-1 on a fixed pool of workers and
// returns the rows in seed order. When cfg has no turn cap, turnCap applies.
// Cancelling ctx stops every run in flight.
func batchRun(ctx context.Context, cfg *config.Config, base int64, runs, workers, turnCap int) ([]BatchRow, error) {
	if workers < 1 {
		workers = 1
	}
	batchCfg := *cfg
	batchCfg.Turn.PacingMS = 0
	batchCfg.Derived.Pacing = 0
	if batchCfg.Turn.MaxTurns == 0 {
		batchCfg.Turn.MaxTurns = turnCap
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	rows := make([]BatchRow, runs)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i] = playSeed(ctx, &batchCfg, base+int64(i), quiet)
			}
		}()
	}

dispatch:
	for i := 0; i < runs; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}
	return rows, nil
}

func playSeed(ctx context.Context, cfg *config.Config, seed int64, logger *slog.Logger) BatchRow {
	row := BatchRow{Seed: seed}
	g := game.New(game.Options{Config: cfg, Seed: seed, Logger: logger})
	if err := g.Setup(); err != nil {
		row.Error = err.Error()
		return row
	}
	for !g.Step() {
		if err := ctx.Err(); err != nil {
			row.Error = err.Error()
			return row
		}
	}
	result, _ := g.Result()
	row.Species, row.Turns, row.Survivors = result.Species, result.Turns, result.Survivors
	return row
}
