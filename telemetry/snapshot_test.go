package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      42,
		Turn:      17,
		BoardSize: 2,
		Board:     []string{"Wx", ", "},
		Entities: []EntityState{
			{
				ID:       1,
				Species:  "Wolf",
				Symbol:   "W",
				X:        0,
				Y:        0,
				Health:   44,
				Strength: 35,
				Speed:    7,
				Bonuses:  []BonusState{{Kind: "strength", Magnitude: 5, Remaining: 2}},
				Effects:  []EffectState{{DamagePerTurn: 5, Remaining: 1}},
				Lifetime: &LifetimeStatsJSON{BirthTurn: 0, DeathTurn: -1, Kills: 3},
			},
		},
		Result: &ResultRecord{Species: "Wolf", Turns: 17},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_17_final.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Turn != 17 || loaded.Seed != 42 || loaded.BoardSize != 2 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Board) != 2 || loaded.Board[0] != "Wx" {
		t.Errorf("board mismatch: %q", loaded.Board)
	}
	if len(loaded.Entities) != 1 {
		t.Fatalf("entity count = %d", len(loaded.Entities))
	}
	e := loaded.Entities[0]
	if e.Health != 44 || e.Bonuses[0].Remaining != 2 || e.Effects[0].DamagePerTurn != 5 {
		t.Errorf("entity mismatch: %+v", e)
	}
	if e.Lifetime == nil || e.Lifetime.Kills != 3 || e.Lifetime.DeathTurn != -1 {
		t.Errorf("lifetime mismatch: %+v", e.Lifetime)
	}
	if loaded.Result == nil || *loaded.Result != (ResultRecord{Species: "Wolf", Turns: 17}) {
		t.Errorf("result mismatch: %+v", loaded.Result)
	}
}

func TestSnapshotBookmarkFileName(t *testing.T) {
	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Turn:     3,
		Bookmark: &Bookmark{Type: BookmarkFirstKill, Turn: 3},
	}
	path, err := SaveSnapshot(snapshot, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "snapshot_3_first_kill.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["result"]; ok {
		t.Error("result should be omitted when unset")
	}
}

func TestLifetimeStatsToJSONNil(t *testing.T) {
	var ls *LifetimeStats
	if ls.ToJSON() != nil {
		t.Error("nil stats should convert to nil")
	}
}
