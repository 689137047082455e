// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Population  PopulationConfig  `yaml:"population"`
	Resources   ResourcesConfig   `yaml:"resources"`
	Consumption ConsumptionConfig `yaml:"consumption"`
	Poison      PoisonConfig      `yaml:"poison"`
	Abilities   AbilitiesConfig   `yaml:"abilities"`
	Turn        TurnConfig        `yaml:"turn"`
	Output      OutputConfig      `yaml:"output"`
	HallOfFame  HallOfFameConfig  `yaml:"hall_of_fame"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds board dimensions.
// The board is square with side CellsPerUnit * SizeMultiplier.
type WorldConfig struct {
	SizeMultiplier int `yaml:"size_multiplier"`
	CellsPerUnit   int `yaml:"cells_per_unit"`
}

// PopulationConfig holds initial population parameters.
type PopulationConfig struct {
	PerSpecies int `yaml:"per_species"`
}

// ResourcesConfig holds the initial board mix in whole percent.
type ResourcesConfig struct {
	GrassPct    int `yaml:"grass_pct"`
	BushPct     int `yaml:"bush_pct"`
	MushroomPct int `yaml:"mushroom_pct"`
	EmptyPct    int `yaml:"empty_pct"`
}

// BonusConfig describes a timed stat bonus.
type BonusConfig struct {
	Magnitude int `yaml:"magnitude"`
	Turns     int `yaml:"turns"`
}

// ConsumptionConfig holds what eating each resource grants.
type ConsumptionConfig struct {
	GrassHealth    int         `yaml:"grass_health"`
	BushSpeed      BonusConfig `yaml:"bush_speed"`
	MushroomBonus  BonusConfig `yaml:"mushroom_strength"`
	MushroomHealth int         `yaml:"mushroom_health"`
}

// PoisonConfig holds the damage-over-time effect applied by venomous hunters.
type PoisonConfig struct {
	DamagePerTurn int `yaml:"damage_per_turn"`
	Turns         int `yaml:"turns"`
}

// AbilitiesConfig holds unique ability switches.
type AbilitiesConfig struct {
	// EvasionBlocksDamage makes a successful evasion roll cancel incoming hunt damage
	// for that turn. Off keeps the roll purely cosmetic.
	EvasionBlocksDamage bool `yaml:"evasion_blocks_damage"`
}

// TurnConfig holds loop pacing and limits.
type TurnConfig struct {
	PacingMS int `yaml:"pacing_ms"` // Real-time delay between turns (observability only)
	MaxTurns int `yaml:"max_turns"` // 0 = run until extinction
}

// OutputConfig holds persistence destinations.
type OutputConfig struct {
	ResultLog    string `yaml:"result_log"`    // CSV file the final result is appended to ("" = disabled)
	TelemetryDir string `yaml:"telemetry_dir"` // Per-turn CSV output directory ("" = disabled)
	SnapshotDir  string `yaml:"snapshot_dir"`  // Final-state JSON snapshot directory ("" = disabled)
	RedisAddr    string `yaml:"redis_addr"`    // Optional redis result log ("" = disabled)
	RedisKey     string `yaml:"redis_key"`
}

// HallOfFameConfig holds ranking parameters for notable creatures.
type HallOfFameConfig struct {
	Size             int            `yaml:"size"` // entries kept per species
	MinKills         int            `yaml:"min_kills"`
	MinSurvivalTurns int            `yaml:"min_survival_turns"`
	Weights          FitnessWeights `yaml:"weights"`
}

// FitnessWeights scale each lifetime statistic in a hall of fame score.
type FitnessWeights struct {
	Survival float64 `yaml:"survival"`
	Kills    float64 `yaml:"kills"`
	Damage   float64 `yaml:"damage"`
	Consumed float64 `yaml:"consumed"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BoardSize  int           // Side length of the square board
	TotalCells int           // BoardSize * BoardSize
	Pacing     time.Duration // Turn.PacingMS as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and recomputes derived values.
// Call it again after changing fields by hand (e.g. from CLI flags).
func (c *Config) Validate() error {
	if c.World.SizeMultiplier < 1 {
		return fmt.Errorf("%w: size multiplier must be at least 1, got %d", ErrInvalid, c.World.SizeMultiplier)
	}
	if c.World.CellsPerUnit < 1 {
		return fmt.Errorf("%w: cells per unit must be at least 1, got %d", ErrInvalid, c.World.CellsPerUnit)
	}
	if c.Population.PerSpecies < 1 {
		return fmt.Errorf("%w: creatures per species must be at least 1, got %d", ErrInvalid, c.Population.PerSpecies)
	}

	r := c.Resources
	for _, pct := range []int{r.GrassPct, r.BushPct, r.MushroomPct, r.EmptyPct} {
		if pct < 0 {
			return fmt.Errorf("%w: resource percentages must not be negative", ErrInvalid)
		}
	}
	if sum := r.GrassPct + r.BushPct + r.MushroomPct + r.EmptyPct; sum != 100 {
		return fmt.Errorf("%w: resource percentages sum to %d, want 100", ErrInvalid, sum)
	}

	if c.Consumption.BushSpeed.Turns < 1 || c.Consumption.MushroomBonus.Turns < 1 {
		return fmt.Errorf("%w: bonus durations must be at least 1 turn", ErrInvalid)
	}
	if c.Poison.Turns < 1 {
		return fmt.Errorf("%w: poison duration must be at least 1 turn", ErrInvalid)
	}
	if c.HallOfFame.Size < 1 {
		return fmt.Errorf("%w: hall of fame size must be at least 1", ErrInvalid)
	}
	if c.Turn.PacingMS < 0 || c.Turn.MaxTurns < 0 {
		return fmt.Errorf("%w: pacing and max turns must not be negative", ErrInvalid)
	}

	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.BoardSize = c.World.CellsPerUnit * c.World.SizeMultiplier
	c.Derived.TotalCells = c.Derived.BoardSize * c.Derived.BoardSize
	c.Derived.Pacing = time.Duration(c.Turn.PacingMS) * time.Millisecond
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
