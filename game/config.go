package game

import (
	"log/slog"

	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/telemetry"
)

// Options holds configuration for game initialization.
type Options struct {
	// Config to run with. Nil uses config.Cfg().
	Config *config.Config

	// Seed for the run's random source. 0 picks a time-based seed.
	Seed int64

	// RNG overrides Seed when set. Every random decision in the run draws from it.
	RNG systems.RNG

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Output receives per-turn CSV telemetry. Nil disables it.
	Output *telemetry.OutputManager

	// SnapshotDir receives JSON snapshots at bookmarks and at the end. Empty disables them.
	SnapshotDir string
}

// DefaultOptions returns options using the global configuration.
func DefaultOptions() Options {
	cfg := config.Cfg()
	return Options{
		Config:      cfg,
		SnapshotDir: cfg.Output.SnapshotDir,
	}
}
