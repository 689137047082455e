package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/ekosystem/config"
	"github.com/pthm-cable/ekosystem/traits"
)

// HallEntry is a notable creature and its score.
type HallEntry struct {
	EntityID    uint32
	Species     traits.Species
	Fitness     float64
	Survived    int // turns on the board
	Kills       int
	DamageDealt int
	Consumed    int
	Evasions    int
}

// HallOfFame ranks the most successful creatures of each species.
type HallOfFame struct {
	halls   [traits.NumSpecies][]HallEntry
	maxSize int
	cfg     config.HallOfFameConfig
}

// NewHallOfFame creates a hall of fame keeping cfg.Size entries per species.
func NewHallOfFame(cfg config.HallOfFameConfig) *HallOfFame {
	maxSize := cfg.Size
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{maxSize: maxSize, cfg: cfg}
}

// Consider evaluates a creature, dead or surviving at turn, for entry.
// Returns true if it was added.
func (hof *HallOfFame) Consider(entityID uint32, stats *LifetimeStats, turn int) bool {
	if stats == nil {
		return false
	}
	survived := turn - stats.BirthTurn
	if !stats.Alive() {
		survived = stats.DeathTurn - stats.BirthTurn
	}
	if stats.Kills < hof.cfg.MinKills && survived < hof.cfg.MinSurvivalTurns {
		return false
	}

	entry := HallEntry{
		EntityID:    entityID,
		Species:     stats.Species,
		Survived:    survived,
		Kills:       stats.Kills,
		DamageDealt: stats.DamageDealt,
		Consumed:    stats.Consumed,
		Evasions:    stats.Evasions,
	}
	entry.Fitness = hof.fitness(entry)

	hall := &hof.halls[stats.Species]
	*hall = hof.insertEntry(*hall, entry)
	return true
}

func (hof *HallOfFame) fitness(e HallEntry) float64 {
	w := hof.cfg.Weights
	return float64(e.Survived)*w.Survival +
		float64(e.Kills)*w.Kills +
		float64(e.DamageDealt)*w.Damage +
		float64(e.Consumed)*w.Consumed
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Top returns the ranked entries for a species.
func (hof *HallOfFame) Top(s traits.Species) []HallEntry {
	out := make([]HallEntry, len(hof.halls[s]))
	copy(out, hof.halls[s])
	return out
}

// Size returns the number of entries for a species.
func (hof *HallOfFame) Size(s traits.Species) int {
	return len(hof.halls[s])
}

type hallEntryJSON struct {
	EntityID    uint32  `json:"entity_id"`
	Fitness     float64 `json:"fitness"`
	Survived    int     `json:"survived_turns"`
	Kills       int     `json:"kills"`
	DamageDealt int     `json:"damage_dealt"`
	Consumed    int     `json:"consumed"`
	Evasions    int     `json:"evasions"`
}

// MarshalJSON serializes the hall of fame keyed by species name.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make(map[string][]hallEntryJSON)
	for s, hall := range hof.halls {
		if len(hall) == 0 {
			continue
		}
		entries := make([]hallEntryJSON, len(hall))
		for i, e := range hall {
			entries[i] = hallEntryJSON{
				EntityID:    e.EntityID,
				Fitness:     e.Fitness,
				Survived:    e.Survived,
				Kills:       e.Kills,
				DamageDealt: e.DamageDealt,
				Consumed:    e.Consumed,
				Evasions:    e.Evasions,
			}
		}
		export[traits.Species(s).String()] = entries
	}
	return json.MarshalIndent(export, "", "  ")
}
