package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a turn.
type Phase uint8

// Turn phases, in the order a turn runs them.
const (
	PhaseCreatures Phase = iota // refresh, move, ability, effects
	PhaseHunting
	PhaseCleanup
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"creatures", "hunting", "cleanup", "telemetry"}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// turnTiming is the wall time of one turn split by phase.
type turnTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps the timings of the most recent turns in a ring.
type PerfCollector struct {
	ring  []turnTiming
	next  int
	count int

	current    turnTiming
	turnStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over the last window turns.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 50
	}
	return &PerfCollector{ring: make([]turnTiming, window), now: time.Now}
}

// StartTurn begins timing a new turn.
func (p *PerfCollector) StartTurn() {
	p.turnStart = p.now()
	p.current = turnTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	t := p.now()
	p.closePhase(t)
	p.phase, p.phaseStart, p.inPhase = phase, t, true
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.inPhase && p.phase < numPhases {
		p.current.phases[p.phase] += t.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTurn closes the running phase and stores the turn in the ring.
func (p *PerfCollector) EndTurn() {
	t := p.now()
	p.closePhase(t)
	p.current.total = t.Sub(p.turnStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// PerfStats summarizes the window. Durations are in microseconds.
type PerfStats struct {
	Turns          int
	AvgTurnUS      float64
	StdTurnUS      float64
	MinTurnUS      float64
	MaxTurnUS      float64
	TurnsPerSecond float64

	PhaseAvgUS [numPhases]float64
	PhasePct   [numPhases]float64 // share of the average turn
}

// Stats aggregates the turns currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Turns: p.count}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	perPhase := make([][]float64, numPhases)
	for i, tt := range p.ring[:p.count] {
		totals[i] = micros(tt.total)
		for ph, d := range tt.phases {
			perPhase[ph] = append(perPhase[ph], micros(d))
		}
	}

	s.AvgTurnUS, s.StdTurnUS = stat.MeanStdDev(totals, nil)
	if p.count == 1 {
		s.StdTurnUS = 0
	}
	s.MinTurnUS = floats.Min(totals)
	s.MaxTurnUS = floats.Max(totals)
	if s.AvgTurnUS > 0 {
		s.TurnsPerSecond = 1e6 / s.AvgTurnUS
	}
	for ph := range s.PhaseAvgUS {
		s.PhaseAvgUS[ph] = stat.Mean(perPhase[ph], nil)
		if s.AvgTurnUS > 0 {
			s.PhasePct[ph] = s.PhaseAvgUS[ph] / s.AvgTurnUS * 100
		}
	}
	return s
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("turns", s.Turns),
		slog.Float64("avg_turn_us", s.AvgTurnUS),
		slog.Float64("max_turn_us", s.MaxTurnUS),
		slog.Float64("turns_per_sec", s.TurnsPerSecond),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Turn         int     `csv:"turn"`
	AvgTurnUS    float64 `csv:"avg_turn_us"`
	StdTurnUS    float64 `csv:"std_turn_us"`
	MinTurnUS    float64 `csv:"min_turn_us"`
	MaxTurnUS    float64 `csv:"max_turn_us"`
	TurnsPerSec  float64 `csv:"turns_per_sec"`
	CreaturesPct float64 `csv:"creatures_pct"`
	HuntingPct   float64 `csv:"hunting_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// pct maps a phase to its column.
func (r *PerfStatsCSV) pct(ph Phase) *float64 {
	switch ph {
	case PhaseCreatures:
		return &r.CreaturesPct
	case PhaseHunting:
		return &r.HuntingPct
	case PhaseCleanup:
		return &r.CleanupPct
	case PhaseTelemetry:
		return &r.TelemetryPct
	}
	return nil
}

// ToCSV flattens the stats into a perf.csv row for the given turn.
func (s PerfStats) ToCSV(turn int) PerfStatsCSV {
	row := PerfStatsCSV{
		Turn:        turn,
		AvgTurnUS:   s.AvgTurnUS,
		StdTurnUS:   s.StdTurnUS,
		MinTurnUS:   s.MinTurnUS,
		MaxTurnUS:   s.MaxTurnUS,
		TurnsPerSec: s.TurnsPerSecond,
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if col := row.pct(ph); col != nil {
			*col = s.PhasePct[ph]
		}
	}
	return row
}
