// Command optimize searches board and consumption parameters with CMA-ES
// for a configuration under which no species dominates.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ekosystem/config"
)

var flags struct {
	configPath string
	outputDir  string
	maxTurns   int
	seeds      int
	seedBase   int64
	maxEvals   int
	population int
}

var rootCmd = &cobra.Command{
	Use:          "optimize",
	Short:        "Tune resources and poison for balanced winners",
	SilenceUsage: true,
	RunE:         runOptimize,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	f.StringVar(&flags.outputDir, "output", "", "Output directory for results")
	f.IntVar(&flags.maxTurns, "max-turns", 2000, "Turn cap per run; capped runs are undecided")
	f.IntVar(&flags.seeds, "seeds", 16, "Runs per evaluation")
	f.Int64Var(&flags.seedBase, "seed-base", 42, "First seed of every evaluation")
	f.IntVar(&flags.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	f.IntVar(&flags.population, "population", 0, "CMA-ES population size (0 = auto)")
	_ = rootCmd.MarkFlagRequired("output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	if flags.maxTurns < 1 {
		return fmt.Errorf("--max-turns must be positive, uncapped runs may never end")
	}
	if err := os.MkdirAll(flags.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	base, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	eval := NewFitnessEvaluator(params, base, EvalOptions{
		Seeds:    flags.seeds,
		SeedBase: flags.seedBase,
		MaxTurns: flags.maxTurns,
	})
	t, err := newTuner(params, eval, flags.maxEvals, filepath.Join(flags.outputDir, "optimize_log.csv"), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer t.Close()

	popSize := flags.population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "CMA-ES over %d parameters, population %d, %d evaluations of %d seeds capped at %d turns\n",
		params.Dim(), popSize, flags.maxEvals, flags.seeds, flags.maxTurns)

	start := params.Normalize(params.Encode(TunedFromConfig(base)))
	_, err = optimize.Minimize(
		optimize.Problem{Func: t.objective},
		start,
		&optimize.Settings{FuncEvaluations: flags.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "optimization ended: %v\n", err)
	}

	return t.report(base, flags.outputDir)
}
