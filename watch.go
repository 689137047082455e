package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/ekosystem/ui"
)

var startPaused bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a simulation in an interactive terminal view",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&startPaused, "paused", false, "Start paused; press space to run")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the viewer; logs go to a file.
	logFile, err := os.Create("ekosystem.log")
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	logger := setupLogger(logFile)

	g, err := newGame(cfg, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	result, err := ui.Run(g, ui.Options{Pacing: cfg.Derived.Pacing, StartPaused: startPaused})
	if err != nil {
		return err
	}
	if !g.Done() {
		logger.Info("viewer closed before the end", "turn", g.Turn())
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), describeResult(result))
	return persist(context.Background(), cfg, result, logger)
}
