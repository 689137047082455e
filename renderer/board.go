package renderer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/ekosystem/systems"
	"github.com/pthm-cable/ekosystem/telemetry"
	"github.com/pthm-cable/ekosystem/traits"
)

// Board renders the snapshot's board inside a bordered panel, one styled
// rune per cell with a space between columns.
func Board(snap *telemetry.Snapshot, theme Theme) string {
	var sb strings.Builder
	for y, row := range snap.Board {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x, r := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(theme.cellStyle(r).Render(string(r)))
		}
	}
	return theme.Panel.Render(sb.String())
}

// PlainBoard renders the board without styling, as the original console view did.
func PlainBoard(snap *telemetry.Snapshot) string {
	var sb strings.Builder
	for _, row := range snap.Board {
		for x, r := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// cellStyle picks the style for a board rune.
func (t Theme) cellStyle(r rune) lipgloss.Style {
	if s, ok := traits.BySymbol(r); ok {
		if s.Profile().Carnivore() {
			return t.Carnivore
		}
		return t.Herbivore
	}
	switch r {
	case systems.CellGrass.Symbol():
		return t.Grass
	case systems.CellBush.Symbol():
		return t.Bush
	case systems.CellMushroom.Symbol():
		return t.Mushroom
	case systems.CellStone.Symbol():
		return t.Stone
	}
	return lipgloss.NewStyle()
}

// Legend lists what every board symbol means.
func Legend(theme Theme) string {
	var lines []string
	lines = append(lines, theme.SectionHeader.Render("Legend"))
	for _, res := range systems.Catalog() {
		lines = append(lines, theme.cellStyle(res.Symbol).Render(string(res.Symbol))+" "+theme.Label.Render(res.Name))
	}
	lines = append(lines, theme.Stone.Render(string(systems.CellStone.Symbol()))+" "+theme.Label.Render("Stone"))
	for _, s := range traits.All() {
		p := s.Profile()
		lines = append(lines, theme.cellStyle(p.Symbol).Render(string(p.Symbol))+" "+theme.Label.Render(p.Name))
	}
	return strings.Join(lines, "\n")
}
