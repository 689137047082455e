package main

import (
	"math"

	"github.com/pthm-cable/ekosystem/config"
)

// minEmptyPct keeps enough empty cells for placement and for stones.
const minEmptyPct = 15

// Tuned holds the config values the tuner searches over.
type Tuned struct {
	GrassPct         int `csv:"grass_pct"`
	BushPct          int `csv:"bush_pct"`
	MushroomPct      int `csv:"mushroom_pct"`
	GrassHealth      int `csv:"grass_health"`
	BushSpeed        int `csv:"bush_speed"`
	MushroomStrength int `csv:"mushroom_strength"`
	MushroomHealth   int `csv:"mushroom_health"`
	PoisonDamage     int `csv:"poison_damage"`
}

// TunedFromConfig reads the tuned values out of cfg.
func TunedFromConfig(cfg *config.Config) Tuned {
	return Tuned{
		GrassPct:         cfg.Resources.GrassPct,
		BushPct:          cfg.Resources.BushPct,
		MushroomPct:      cfg.Resources.MushroomPct,
		GrassHealth:      cfg.Consumption.GrassHealth,
		BushSpeed:        cfg.Consumption.BushSpeed.Magnitude,
		MushroomStrength: cfg.Consumption.MushroomBonus.Magnitude,
		MushroomHealth:   cfg.Consumption.MushroomHealth,
		PoisonDamage:     cfg.Poison.DamagePerTurn,
	}
}

// Apply writes t into cfg and re-derives it. The resource mix is squeezed
// from grass first so the empty share never drops below minEmptyPct.
func (t Tuned) Apply(cfg *config.Config) error {
	r := &cfg.Resources
	r.GrassPct, r.BushPct, r.MushroomPct = t.GrassPct, t.BushPct, t.MushroomPct
	if over := r.GrassPct + r.BushPct + r.MushroomPct + minEmptyPct - 100; over > 0 {
		r.GrassPct -= over
	}
	r.EmptyPct = 100 - r.GrassPct - r.BushPct - r.MushroomPct

	cfg.Consumption.GrassHealth = t.GrassHealth
	cfg.Consumption.BushSpeed.Magnitude = t.BushSpeed
	cfg.Consumption.MushroomBonus.Magnitude = t.MushroomStrength
	cfg.Consumption.MushroomHealth = t.MushroomHealth
	cfg.Poison.DamagePerTurn = t.PoisonDamage

	return cfg.Validate()
}

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string // matches the Tuned csv column
	Min     float64
	Max     float64
	Default float64
	Field   func(*Tuned) *int
}

// ParamVector maps between the optimizer's continuous space and Tuned.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Board mix; empty_pct is the remainder
			{"grass_pct", 30, 80, 60, func(t *Tuned) *int { return &t.GrassPct }},
			{"bush_pct", 0, 30, 10, func(t *Tuned) *int { return &t.BushPct }},
			{"mushroom_pct", 0, 20, 5, func(t *Tuned) *int { return &t.MushroomPct }},
			{"grass_health", 0, 5, 1, func(t *Tuned) *int { return &t.GrassHealth }},
			{"bush_speed", 0, 5, 2, func(t *Tuned) *int { return &t.BushSpeed }},
			{"mushroom_strength", 0, 15, 5, func(t *Tuned) *int { return &t.MushroomStrength }},
			{"mushroom_health", 0, 15, 5, func(t *Tuned) *int { return &t.MushroomHealth }},
			{"poison_damage", 0, 15, 5, func(t *Tuned) *int { return &t.PoisonDamage }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] search space.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts search-space values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Decode clamps raw values into bounds and rounds them into a Tuned.
func (pv *ParamVector) Decode(raw []float64) Tuned {
	var t Tuned
	for i, spec := range pv.Specs {
		v := math.Max(spec.Min, math.Min(spec.Max, raw[i]))
		*spec.Field(&t) = int(math.Round(v))
	}
	return t
}

// Encode is the inverse of Decode for in-bounds values.
func (pv *ParamVector) Encode(t Tuned) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = float64(*spec.Field(&t))
	}
	return out
}
