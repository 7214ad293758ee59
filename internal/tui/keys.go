package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start   key.Binding
	Reset   key.Binding
	Slower  key.Binding
	Faster  key.Binding
	Speed   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Points  key.Binding
	Open    key.Binding
	Notes   key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start stage")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Slower:  key.NewBinding(key.WithKeys("["), key.WithHelp("[ ]", "speed")),
		Faster:  key.NewBinding(key.WithKeys("]")),
		Speed:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "set speed")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "pan")),
		Down:    key.NewBinding(key.WithKeys("down")),
		Left:    key.NewBinding(key.WithKeys("left")),
		Right:   key.NewBinding(key.WithKeys("right")),
		Points:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "points")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
		Notes:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "methods")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:    key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpBindings lists the bindings shown in the footer, in order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Start, k.Reset, k.Slower, k.Speed, k.Up, k.ZoomIn,
		k.Points, k.Open, k.Notes, k.Dismiss, k.Help, k.Quit,
	}
}
