package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the viewer's bindings.
type keyMap struct {
	Quit  key.Binding
	Pause key.Binding
	Step  key.Binding
	Up    key.Binding
	Down  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Step:  key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "step when paused")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll log")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll log")),
	}
}

// help renders the binding summary.
func (k keyMap) help() string {
	var s string
	for i, b := range []key.Binding{k.Pause, k.Step, k.Up, k.Quit} {
		if i > 0 {
			s += "  "
		}
		h := b.Help()
		s += h.Key + " " + h.Desc
	}
	return s
}
