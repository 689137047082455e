package telemetry

import (
	"fmt"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ekosystem/traits"
)

// TurnStats holds aggregated statistics for one turn.
type TurnStats struct {
	Turn int `csv:"turn"`

	// Population counts at turn end
	Population   int    `csv:"population"`
	Carnivores   int    `csv:"carnivores"`
	Herbivores   int    `csv:"herbivores"`
	SpeciesAlive int    `csv:"species_alive"`
	Survivors    string `csv:"survivors"`

	// Events during the turn
	Attacks      int `csv:"attacks"`
	Kills        int `csv:"kills"`
	Evasions     int `csv:"evasions"`
	Consumed     int `csv:"consumed"`
	PoisonTicks  int `csv:"poison_ticks"`
	EffectDeaths int `csv:"effect_deaths"`

	// Health distribution (sampled at turn end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthMin  float64 `csv:"health_min"`
	HealthMax  float64 `csv:"health_max"`

	Alive [traits.NumSpecies]int `csv:"-"`
}

// ComputeHealthStats calculates mean, standard deviation and range.
// Standard deviation is zero for fewer than two values.
func ComputeHealthStats(values []float64) (mean, std, lo, hi float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)
	return mean, std, floats.Min(values), floats.Max(values)
}

// FormatSurvivors renders live counts as "Wolf:2 Bison:1", skipping extinct species.
func FormatSurvivors(alive [traits.NumSpecies]int) string {
	var parts []string
	for s, n := range alive {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", traits.Species(s), n))
		}
	}
	return strings.Join(parts, " ")
}

// LogValue implements slog.LogValuer for structured logging.
func (s TurnStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("turn", s.Turn),
		slog.Int("population", s.Population),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("herbivores", s.Herbivores),
		slog.String("survivors", s.Survivors),
	)
}
