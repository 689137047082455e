package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTimedCollector(window int) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

// playTurn times a turn whose phases take the given durations, in order.
func playTurn(pc *PerfCollector, clock *fakeClock, durations ...time.Duration) {
	pc.StartTurn()
	for i, d := range durations {
		pc.StartPhase(Phase(i))
		clock.advance(d)
	}
	pc.EndTurn()
}

func TestPerfCollectorSplitsPhases(t *testing.T) {
	pc, clock := newTimedCollector(10)
	for i := 0; i < 4; i++ {
		playTurn(pc, clock, 300*time.Microsecond, 100*time.Microsecond, 0, 100*time.Microsecond)
	}

	s := pc.Stats()
	assert.Equal(t, 4, s.Turns)
	assert.InDelta(t, 500, s.AvgTurnUS, 1e-9)
	assert.InDelta(t, 0, s.StdTurnUS, 1e-9)
	assert.InDelta(t, 2000, s.TurnsPerSecond, 1e-9)
	assert.InDelta(t, 60, s.PhasePct[PhaseCreatures], 1e-9)
	assert.InDelta(t, 20, s.PhasePct[PhaseHunting], 1e-9)
	assert.Zero(t, s.PhasePct[PhaseCleanup])
	assert.InDelta(t, 100, s.PhaseAvgUS[PhaseTelemetry], 1e-9)
}

func TestPerfCollectorWindowDropsOldTurns(t *testing.T) {
	pc, clock := newTimedCollector(2)
	playTurn(pc, clock, 10*time.Millisecond)
	playTurn(pc, clock, 100*time.Microsecond)
	playTurn(pc, clock, 300*time.Microsecond)

	s := pc.Stats()
	assert.Equal(t, 2, s.Turns)
	assert.InDelta(t, 100, s.MinTurnUS, 1e-9)
	assert.InDelta(t, 300, s.MaxTurnUS, 1e-9)
	assert.InDelta(t, 200, s.AvgTurnUS, 1e-9)
	assert.Positive(t, s.StdTurnUS)
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(0).Stats()
	assert.Zero(t, s.Turns)
	assert.Zero(t, s.AvgTurnUS)
	assert.Zero(t, s.TurnsPerSecond)
}

func TestPerfCollectorSingleTurn(t *testing.T) {
	pc, clock := newTimedCollector(5)
	playTurn(pc, clock, time.Millisecond)

	s := pc.Stats()
	require.Equal(t, 1, s.Turns)
	assert.Zero(t, s.StdTurnUS)
	assert.InDelta(t, 100, s.PhasePct[PhaseCreatures], 1e-9)
}

func TestPerfStatsToCSVFollowsPhases(t *testing.T) {
	var s PerfStats
	s.AvgTurnUS = 3000
	for ph := Phase(0); ph < numPhases; ph++ {
		s.PhasePct[ph] = float64(10 * (ph + 1))
	}

	row := s.ToCSV(12)
	assert.Equal(t, 12, row.Turn)
	assert.Equal(t, 3000.0, row.AvgTurnUS)
	for ph := Phase(0); ph < numPhases; ph++ {
		assert.Equal(t, s.PhasePct[ph], *row.pct(ph), ph.String())
	}
	assert.Nil(t, row.pct(numPhases))
	assert.Equal(t, "unknown", numPhases.String())
}
