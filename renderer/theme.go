// Package renderer draws board snapshots as styled terminal text.
package renderer

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used for every rendered element.
type Theme struct {
	Panel         lipgloss.Style
	Title         lipgloss.Style
	SectionHeader lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	Muted         lipgloss.Style

	Carnivore lipgloss.Style
	Herbivore lipgloss.Style
	Grass     lipgloss.Style
	Bush      lipgloss.Style
	Mushroom  lipgloss.Style
	Stone     lipgloss.Style

	BarFillLow    lipgloss.Style
	BarFillMedium lipgloss.Style
	BarFillHigh   lipgloss.Style
	BarBg         lipgloss.Style

	BarWidth int
}

// DefaultTheme returns the default terminal theme.
func DefaultTheme() Theme {
	return Theme{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C4650")).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true),
		SectionHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B")).
			Bold(true).
			Underline(true),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE")),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true),

		Carnivore: lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")).Bold(true),
		Herbivore: lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")).Bold(true),
		Grass:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5F8700")),
		Bush:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C678DD")),
		Mushroom:  lipgloss.NewStyle().Foreground(lipgloss.Color("#D19A66")),
		Stone:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5C6370")),

		BarFillLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C86464")),
		BarFillMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#C8B464")),
		BarFillHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#64C864")),
		BarBg:         lipgloss.NewStyle().Foreground(lipgloss.Color("#282828")),

		BarWidth: 10,
	}
}
