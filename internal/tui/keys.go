package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Help     key.Binding
	Refresh  key.Binding
	Origin   key.Binding
	Status   key.Binding
	Overdue  key.Binding
	Today    key.Binding
	Pin      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Refresh, k.Origin, k.Status, k.Overdue, k.Today, k.Pin},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Origin: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cycle origin"),
		),
		Status: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle status"),
		),
		Overdue: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "overdue only"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "due today"),
		),
		Pin: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pin person"),
		),
	}
}
