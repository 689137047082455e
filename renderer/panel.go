package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/ekosystem/telemetry"
	"github.com/pthm-cable/ekosystem/traits"
)

// FieldDescriptor defines how to display one column of an entity row.
// Fields are data, so panels can change without touching the drawing code.
type FieldDescriptor struct {
	Label string
	Width int
	Value func(e telemetry.EntityState, theme Theme) string
}

// RosterFields are the columns of the roster panel.
var RosterFields = []FieldDescriptor{
	{Label: "#", Width: 5, Value: func(e telemetry.EntityState, _ Theme) string {
		return fmt.Sprint(e.ID)
	}},
	{Label: "Species", Width: 11, Value: func(e telemetry.EntityState, t Theme) string {
		return t.speciesStyle(e.Species).Render(e.Symbol + " " + e.Species)
	}},
	{Label: "Pos", Width: 8, Value: func(e telemetry.EntityState, _ Theme) string {
		return fmt.Sprintf("%d,%d", e.X, e.Y)
	}},
	{Label: "Health", Width: 17, Value: func(e telemetry.EntityState, t Theme) string {
		return t.healthBar(e)
	}},
	{Label: "Str", Width: 5, Value: func(e telemetry.EntityState, _ Theme) string {
		return fmt.Sprint(e.Strength)
	}},
	{Label: "Spd", Width: 5, Value: func(e telemetry.EntityState, _ Theme) string {
		return fmt.Sprint(e.Speed)
	}},
	{Label: "Status", Width: 14, Value: func(e telemetry.EntityState, t Theme) string {
		return t.Muted.Render(status(e))
	}},
}

// Roster renders the live creature table.
func Roster(snap *telemetry.Snapshot, theme Theme) string {
	return Table(snap.Entities, RosterFields, theme)
}

// Table renders entities as rows using the given field descriptors.
func Table(entities []telemetry.EntityState, fields []FieldDescriptor, theme Theme) string {
	cell := func(s string, width int) string {
		return lipgloss.NewStyle().Width(width).Render(s)
	}

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = cell(theme.SectionHeader.Render(f.Label), f.Width)
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, e := range entities {
		cols := make([]string, len(fields))
		for i, f := range fields {
			cols[i] = cell(f.Value(e, theme), f.Width)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	if len(entities) == 0 {
		rows = append(rows, theme.Muted.Render("(no survivors)"))
	}
	return theme.Panel.Render(strings.Join(rows, "\n"))
}

// Status renders a one-line turn summary.
func Status(snap *telemetry.Snapshot, stats telemetry.TurnStats, theme Theme) string {
	line := fmt.Sprintf("Turn %d  Population %d  Species %d  Attacks %d  Kills %d",
		snap.Turn, len(snap.Entities), stats.SpeciesAlive, stats.Attacks, stats.Kills)
	if snap.Result != nil {
		line += "  " + theme.Title.Render(fmt.Sprintf("Winner: %s after %d turns", snap.Result.Species, snap.Result.Turns))
	}
	return theme.Title.Render("Ekosystem") + "  " + theme.Value.Render(line)
}

func (t Theme) speciesStyle(name string) lipgloss.Style {
	s, ok := traits.ByName(name)
	if !ok {
		return t.Value
	}
	if s.Profile().Carnivore() {
		return t.Carnivore
	}
	return t.Herbivore
}

// healthBar draws health relative to the species' starting health with
// colour thresholds. Health above the start (from grazing) fills the bar.
func (t Theme) healthBar(e telemetry.EntityState) string {
	max := e.Health
	if s, ok := traits.ByName(e.Species); ok {
		max = s.Profile().Health
	}
	ratio := 0.0
	if max > 0 {
		ratio = float64(e.Health) / float64(max)
	}
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	fill := t.BarFillHigh
	switch {
	case ratio < 0.3:
		fill = t.BarFillLow
	case ratio < 0.6:
		fill = t.BarFillMedium
	}

	filled := int(ratio*float64(t.BarWidth) + 0.5)
	bar := fill.Render(strings.Repeat("█", filled)) + t.BarBg.Render(strings.Repeat("░", t.BarWidth-filled))
	return fmt.Sprintf("%s %d", bar, e.Health)
}

// status lists active bonuses and effects compactly, e.g. "spe+2 psn:1".
func status(e telemetry.EntityState) string {
	var parts []string
	for _, b := range e.Bonuses {
		kind := b.Kind
		if len(kind) > 3 {
			kind = kind[:3]
		}
		parts = append(parts, fmt.Sprintf("%s+%d", kind, b.Magnitude))
	}
	if n := len(e.Effects); n > 0 {
		parts = append(parts, fmt.Sprintf("psn:%d", n))
	}
	return strings.Join(parts, " ")
}
