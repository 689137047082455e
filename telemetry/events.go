// Package telemetry provides ecosystem tracking, bookmarking, snapshots and result logging.
package telemetry

import (
	"fmt"

	"github.com/pthm-cable/ekosystem/traits"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventConsume EventType = iota
	EventAttack
	EventKill
	EventPoisonTick
	EventEffectDeath
	EventEvade
)

var eventNames = [...]string{
	EventConsume:     "consume",
	EventAttack:      "attack",
	EventKill:        "kill",
	EventPoisonTick:  "poison_tick",
	EventEffectDeath: "effect_death",
	EventEvade:       "evade",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Turn     int
	EntityID uint32
	Species  traits.Species

	// Optional fields depending on event type
	TargetID      uint32         // attack/kill/evade
	TargetSpecies traits.Species // attack/kill/evade
	Amount        int            // damage dealt or taken
	Resource      string         // consume
}

// NewConsumeEvent creates a resource consumption event.
func NewConsumeEvent(turn int, id uint32, species traits.Species, resource string) Event {
	return Event{Type: EventConsume, Turn: turn, EntityID: id, Species: species, Resource: resource}
}

// NewAttackEvent creates an attack event.
func NewAttackEvent(turn int, attackerID uint32, attacker traits.Species, targetID uint32, target traits.Species, damage int) Event {
	return Event{
		Type:          EventAttack,
		Turn:          turn,
		EntityID:      attackerID,
		Species:       attacker,
		TargetID:      targetID,
		TargetSpecies: target,
		Amount:        damage,
	}
}

// NewKillEvent creates a kill event (target died from an attack).
func NewKillEvent(turn int, attackerID uint32, attacker traits.Species, targetID uint32, target traits.Species) Event {
	return Event{
		Type:          EventKill,
		Turn:          turn,
		EntityID:      attackerID,
		Species:       attacker,
		TargetID:      targetID,
		TargetSpecies: target,
	}
}

// NewEvadeEvent creates an event for an attack blocked by evasion.
func NewEvadeEvent(turn int, attackerID uint32, attacker traits.Species, targetID uint32, target traits.Species) Event {
	return Event{
		Type:          EventEvade,
		Turn:          turn,
		EntityID:      attackerID,
		Species:       attacker,
		TargetID:      targetID,
		TargetSpecies: target,
	}
}

// NewPoisonTickEvent creates a damage-over-time event.
func NewPoisonTickEvent(turn int, id uint32, species traits.Species, damage int) Event {
	return Event{Type: EventPoisonTick, Turn: turn, EntityID: id, Species: species, Amount: damage}
}

// NewEffectDeathEvent creates an event for an entity killed by its effects.
func NewEffectDeathEvent(turn int, id uint32, species traits.Species) Event {
	return Event{Type: EventEffectDeath, Turn: turn, EntityID: id, Species: species}
}

// String renders the event as a single log line.
func (e Event) String() string {
	switch e.Type {
	case EventConsume:
		return fmt.Sprintf("turn %d: %s#%d ate %s", e.Turn, e.Species, e.EntityID, e.Resource)
	case EventAttack:
		return fmt.Sprintf("turn %d: %s#%d hit %s#%d for %d", e.Turn, e.Species, e.EntityID, e.TargetSpecies, e.TargetID, e.Amount)
	case EventKill:
		return fmt.Sprintf("turn %d: %s#%d killed %s#%d", e.Turn, e.Species, e.EntityID, e.TargetSpecies, e.TargetID)
	case EventEvade:
		return fmt.Sprintf("turn %d: %s#%d evaded %s#%d", e.Turn, e.TargetSpecies, e.TargetID, e.Species, e.EntityID)
	case EventPoisonTick:
		return fmt.Sprintf("turn %d: %s#%d took %d poison damage", e.Turn, e.Species, e.EntityID, e.Amount)
	case EventEffectDeath:
		return fmt.Sprintf("turn %d: %s#%d succumbed to poison", e.Turn, e.Species, e.EntityID)
	}
	return fmt.Sprintf("turn %d: %s", e.Turn, e.Type)
}
