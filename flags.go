package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/game"
	"github.com/pthm-cable/ekosystem/telemetry"
)

// runFlags are shared by every command that builds a game.
var runFlags struct {
	configPath   string
	size         int
	count        int
	seed         int64
	pacingMS     int
	maxTurns     int
	resultLog    string
	telemetryDir string
	snapshotDir  string
	redisAddr    string
	logLevel     string
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&runFlags.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	f.IntVar(&runFlags.size, "size", 0, "Board size multiplier; the board is 10x this on a side")
	f.IntVar(&runFlags.count, "count", 0, "Creatures per species")
	f.Int64Var(&runFlags.seed, "seed", 0, "RNG seed (0 = time-based)")
	f.IntVar(&runFlags.pacingMS, "pacing", 0, "Delay between turns in milliseconds")
	f.IntVar(&runFlags.maxTurns, "max-turns", 0, "Stop undecided after N turns (0 = run to extinction)")
	f.StringVar(&runFlags.resultLog, "result-log", "", "CSV file the result is appended to")
	f.StringVar(&runFlags.telemetryDir, "telemetry-dir", "", "Directory for per-turn CSV telemetry")
	f.StringVar(&runFlags.snapshotDir, "snapshot-dir", "", "Directory for JSON snapshots")
	f.StringVar(&runFlags.redisAddr, "redis-addr", "", "Also push results to redis at this address")
	f.StringVar(&runFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// loadConfig initializes the global config and applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.Init(runFlags.configPath); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.World.SizeMultiplier = runFlags.size
	}
	if flags.Changed("count") {
		cfg.Population.PerSpecies = runFlags.count
	}
	if flags.Changed("pacing") {
		cfg.Turn.PacingMS = runFlags.pacingMS
	}
	if flags.Changed("max-turns") {
		cfg.Turn.MaxTurns = runFlags.maxTurns
	}
	if flags.Changed("result-log") {
		cfg.Output.ResultLog = runFlags.resultLog
	}
	if flags.Changed("telemetry-dir") {
		cfg.Output.TelemetryDir = runFlags.telemetryDir
	}
	if flags.Changed("snapshot-dir") {
		cfg.Output.SnapshotDir = runFlags.snapshotDir
	}
	if flags.Changed("redis-addr") {
		cfg.Output.RedisAddr = runFlags.redisAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger installs a JSON slog handler as the default logger.
func setupLogger(w *os.File) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(runFlags.logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// newGame builds and sets up a game from the loaded config.
func newGame(cfg *config.Config, logger *slog.Logger) (*game.Game, error) {
	out, err := telemetry.NewOutputManager(cfg.Output.TelemetryDir)
	if err != nil {
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		logger.Warn("failed to write config snapshot", "error", err)
	}

	g := game.New(game.Options{
		Config:      cfg,
		Seed:        runFlags.seed,
		Logger:      logger,
		Output:      out,
		SnapshotDir: cfg.Output.SnapshotDir,
	})
	if err := g.Setup(); err != nil {
		out.Close()
		return nil, err
	}
	return g, nil
}

// resultSinks builds every configured result destination. The returned
// cleanup closes the redis client, if any.
func resultSinks(cfg *config.Config) ([]telemetry.ResultSink, func(), error) {
	var sinks []telemetry.ResultSink
	cleanup := func() {}

	if cfg.Output.ResultLog != "" {
		sinks = append(sinks, telemetry.NewCSVResultLog(cfg.Output.ResultLog))
	}
	if cfg.Output.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Output.RedisAddr})
		sink, err := telemetry.NewRedisResultLog(&telemetry.RedisConfig{Client: client, Key: cfg.Output.RedisKey})
		if err != nil {
			client.Close()
			return nil, cleanup, err
		}
		sinks = append(sinks, sink)
		cleanup = func() { client.Close() }
	}
	return sinks, cleanup, nil
}

// persist records the result, reporting failures without touching it.
func persist(ctx context.Context, cfg *config.Config, result game.Result, logger *slog.Logger) error {
	sinks, cleanup, err := resultSinks(cfg)
	defer cleanup()
	if err != nil {
		return err
	}
	if err := game.Persist(ctx, result, sinks...); err != nil {
		logger.Error("failed to persist result", "species", result.Species, "turns", result.Turns, "error", err)
		return err
	}
	return nil
}

// describeResult renders the final line printed to the user.
func describeResult(r game.Result) string {
	switch r.Species {
	case game.NoSurvivors, game.Undecided:
		return fmt.Sprintf("%s after %d turns", r.Species, r.Turns)
	}
	return fmt.Sprintf("%s survived after %d turns", r.Species, r.Turns)
}
