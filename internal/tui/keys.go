package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Up        key.Binding
	Down      key.Binding
	Confirm   key.Binding
	Dismiss   key.Binding
	AddFiles  key.Binding
	Remove    key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		AddFiles:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attach photos")),
		Remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove staged")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.AddFiles, k.Remove, k.Submit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Up, k.Down},
		{k.AddFiles, k.Remove, k.Confirm, k.Dismiss},
		{k.Submit, k.Quit},
	}
}
