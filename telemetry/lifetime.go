package telemetry

import "github.com/pthm-cable/ekosystem/traits"

// LifetimeStats tracks per-entity statistics over its lifetime.
type LifetimeStats struct {
	Species   traits.Species
	BirthTurn int
	DeathTurn int // -1 while alive

	// Hunting (carnivores)
	Attacks     int
	Kills       int
	DamageDealt int

	// Survival
	DamageTaken int
	Evasions    int
	Consumed    int
}

// Alive reports whether the entity is still on the board.
func (ls *LifetimeStats) Alive() bool {
	return ls.DeathTurn < 0
}

// LifetimeTracker manages per-entity lifetime statistics.
// Dead entities stay tracked so final snapshots can report them.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new entity.
func (lt *LifetimeTracker) Register(entityID uint32, species traits.Species, birthTurn int) {
	lt.stats[entityID] = &LifetimeStats{
		Species:   species,
		BirthTurn: birthTurn,
		DeathTurn: -1,
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Observe folds an event into the stats of the entities involved.
func (lt *LifetimeTracker) Observe(ev Event) {
	actor := lt.stats[ev.EntityID]
	target := lt.stats[ev.TargetID]

	switch ev.Type {
	case EventConsume:
		if actor != nil {
			actor.Consumed++
		}
	case EventAttack:
		if actor != nil {
			actor.Attacks++
			actor.DamageDealt += ev.Amount
		}
		if target != nil {
			target.DamageTaken += ev.Amount
		}
	case EventKill:
		if actor != nil {
			actor.Kills++
		}
		if target != nil {
			target.DeathTurn = ev.Turn
		}
	case EventEvade:
		if target != nil {
			target.Evasions++
		}
	case EventPoisonTick:
		if actor != nil {
			actor.DamageTaken += ev.Amount
		}
	case EventEffectDeath:
		if actor != nil {
			actor.DeathTurn = ev.Turn
		}
	}
}

// MarkDead records a death not caused by a tracked event (scripted damage).
func (lt *LifetimeTracker) MarkDead(entityID uint32, turn int) {
	if s := lt.stats[entityID]; s != nil && s.Alive() {
		s.DeathTurn = turn
	}
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// AliveCount returns the number of tracked entities still alive.
func (lt *LifetimeTracker) AliveCount() int {
	n := 0
	for _, s := range lt.stats {
		if s.Alive() {
			n++
		}
	}
	return n
}
