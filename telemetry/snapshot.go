package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a read-only record of the board at the end of a turn.
// It is written for inspection only; runs cannot be resumed from it.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Turn    int   `json:"turn"`

	BoardSize int      `json:"board_size"`
	Board     []string `json:"board"`

	Entities []EntityState `json:"entities"`

	Result   *ResultRecord `json:"result,omitempty"`
	Bookmark *Bookmark     `json:"bookmark,omitempty"`
}

// EntityState holds one entity's state.
type EntityState struct {
	ID      uint32 `json:"id"`
	Species string `json:"species"`
	Symbol  string `json:"symbol"`

	X int `json:"x"`
	Y int `json:"y"`

	Health   int `json:"health"`
	Strength int `json:"strength"`
	Speed    int `json:"speed"`

	Bonuses []BonusState  `json:"bonuses,omitempty"`
	Effects []EffectState `json:"effects,omitempty"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// BonusState is the JSON form of an active bonus.
type BonusState struct {
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
	Remaining int    `json:"remaining"`
}

// EffectState is the JSON form of an active damage-over-time effect.
type EffectState struct {
	DamagePerTurn int `json:"damage_per_turn"`
	Remaining     int `json:"remaining"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	BirthTurn   int `json:"birth_turn"`
	DeathTurn   int `json:"death_turn"`
	Attacks     int `json:"attacks"`
	Kills       int `json:"kills"`
	DamageDealt int `json:"damage_dealt"`
	DamageTaken int `json:"damage_taken"`
	Evasions    int `json:"evasions"`
	Consumed    int `json:"consumed"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		BirthTurn:   ls.BirthTurn,
		DeathTurn:   ls.DeathTurn,
		Attacks:     ls.Attacks,
		Kills:       ls.Kills,
		DamageDealt: ls.DamageDealt,
		DamageTaken: ls.DamageTaken,
		Evasions:    ls.Evasions,
		Consumed:    ls.Consumed,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Turn)
	switch {
	case snapshot.Bookmark != nil:
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Turn, sanitized)
	case snapshot.Result != nil:
		name = fmt.Sprintf("snapshot_%d_final", snapshot.Turn)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
