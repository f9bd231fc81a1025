package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/truckfinder/internal/flow"
)

type keyMap struct {
	Quit     key.Binding
	QuitLite key.Binding
	Theme    key.Binding
	Back     key.Binding
	Submit   key.Binding
	Save     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Left     key.Binding
	Right    key.Binding
	Delete   key.Binding
	Resend   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitLite: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "find drivers")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Delete:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Resend:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resend code")),
	}
}

// helpFor lists the bindings shown in the footer of a route.
func (k keyMap) helpFor(r flow.Route, canGoBack bool) []key.Binding {
	var out []key.Binding
	switch r {
	case flow.RouteWelcome:
		out = []key.Binding{k.Submit, k.QuitLite}
	case flow.RouteVerification:
		out = []key.Binding{k.Submit, k.Resend, k.Left, k.Right}
	case flow.RouteProfileChoice:
		out = []key.Binding{k.Next, k.Submit}
	case flow.RouteCreateOrder:
		out = []key.Binding{k.Next, k.Prev, k.Save}
	case flow.RouteSearchTrucks, flow.RouteTransporterApplication:
		out = []key.Binding{k.QuitLite}
	default:
		out = []key.Binding{k.Submit}
	}
	if canGoBack {
		out = append(out, k.Back)
	}
	return append(out, k.Theme, k.Quit)
}
