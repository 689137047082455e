package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/ekosystem/game"
	"github.com/pthm-cable/ekosystem/renderer"
)

var renderBoard bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation to the end and record the result",
	Long: `Run a simulation headless, logging JSON to stderr. With --render the board and
roster are printed to stdout after every turn.`,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().BoolVar(&renderBoard, "render", false, "Print the board after every turn")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr)

	g, err := newGame(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Warn("failed to close telemetry output", "error", err)
		}
	}()

	logger.Info("starting simulation",
		"seed", g.Seed(),
		"board_size", cfg.Derived.BoardSize,
		"per_species", cfg.Population.PerSpecies,
		"pacing", cfg.Derived.Pacing,
	)

	var onTurn func(*game.Game)
	if renderBoard {
		theme := renderer.DefaultTheme()
		onTurn = func(g *game.Game) {
			snap := g.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), renderer.Status(snap, g.LastStats(), theme))
			fmt.Fprintln(cmd.OutOrStdout(), renderer.Board(snap, theme))
			fmt.Fprintln(cmd.OutOrStdout(), renderer.Roster(snap, theme))
		}
	}

	result, err := g.Run(ctx, onTurn)
	if err != nil {
		logger.Info("simulation interrupted", "turn", g.Turn())
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), describeResult(result))
	// Result is already final; persistence failures only change the exit code.
	return persist(context.Background(), cfg, result, logger)
}
