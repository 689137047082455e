package telemetry

import "github.com/pthm-cable/ekosystem/traits"

// recentLimit bounds the event history kept for viewers.
const recentLimit = 64

// Collector accumulates events within a turn and produces TurnStats.
type Collector struct {
	attacks      int
	kills        int
	evasions     int
	consumed     int
	poisonTicks  int
	effectDeaths int

	recent []Event
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{recent: make([]Event, 0, recentLimit)}
}

// Record counts an event and keeps it in the recent history.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventConsume:
		c.consumed++
	case EventAttack:
		c.attacks++
	case EventKill:
		c.kills++
	case EventEvade:
		c.evasions++
	case EventPoisonTick:
		c.poisonTicks++
	case EventEffectDeath:
		c.effectDeaths++
	}

	if len(c.recent) == recentLimit {
		copy(c.recent, c.recent[1:])
		c.recent = c.recent[:recentLimit-1]
	}
	c.recent = append(c.recent, ev)
}

// Recent returns up to n of the latest events, oldest first.
func (c *Collector) Recent(n int) []Event {
	if n > len(c.recent) {
		n = len(c.recent)
	}
	out := make([]Event, n)
	copy(out, c.recent[len(c.recent)-n:])
	return out
}

// PopulationSample is the roster state sampled at the end of a turn.
type PopulationSample struct {
	Alive   [traits.NumSpecies]int
	Healths []float64
}

// Add counts one live entity.
func (p *PopulationSample) Add(s traits.Species, health int) {
	p.Alive[s]++
	p.Healths = append(p.Healths, float64(health))
}

// Flush produces the TurnStats for the turn and resets the counters.
func (c *Collector) Flush(turn int, sample PopulationSample) TurnStats {
	stats := TurnStats{
		Turn:         turn,
		Attacks:      c.attacks,
		Kills:        c.kills,
		Evasions:     c.evasions,
		Consumed:     c.consumed,
		PoisonTicks:  c.poisonTicks,
		EffectDeaths: c.effectDeaths,
		Alive:        sample.Alive,
	}

	for s, n := range sample.Alive {
		if n == 0 {
			continue
		}
		stats.Population += n
		stats.SpeciesAlive++
		if traits.Species(s).Profile().Carnivore() {
			stats.Carnivores += n
		} else {
			stats.Herbivores += n
		}
	}
	stats.Survivors = FormatSurvivors(sample.Alive)
	stats.HealthMean, stats.HealthStd, stats.HealthMin, stats.HealthMax = ComputeHealthStats(sample.Healths)

	c.attacks = 0
	c.kills = 0
	c.evasions = 0
	c.consumed = 0
	c.poisonTicks = 0
	c.effectDeaths = 0

	return stats
}
