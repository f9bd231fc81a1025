package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Label     lipgloss.Style
	Input     lipgloss.Style
	Focused   lipgloss.Style
	Button    lipgloss.Style
	Secondary lipgloss.Style
	Card      lipgloss.Style
	CardFocus lipgloss.Style
	CodeSlot  lipgloss.Style
	CodeFocus lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Info      lipgloss.Style
	Footer    lipgloss.Style
}

// cells converts points to terminal columns, never below one for a
// non-zero value.
func cells(points int) int {
	if points <= 0 {
		return 0
	}
	if n := points / Cell; n > 0 {
		return n
	}
	return 1
}

func text(t TextStyle, c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(t.Bold())
}

// NewStyles builds the terminal styles for t.
func NewStyles(t Theme) Styles {
	c := t.Colors
	pad := cells(t.Spacing.MD)
	box := lipgloss.RoundedBorder()

	input := lipgloss.NewStyle().
		Border(box).
		BorderForeground(c.Border).
		Padding(0, cells(t.Spacing.SM))
	card := lipgloss.NewStyle().
		Border(box).
		BorderForeground(c.Border).
		Padding(0, pad).
		MarginBottom(cells(t.Spacing.XS))
	slot := lipgloss.NewStyle().
		Border(box).
		BorderForeground(c.Gray300).
		Width(3).
		Align(lipgloss.Center)

	return Styles{
		App:       lipgloss.NewStyle().Background(c.Background).Foreground(c.Text).Padding(cells(t.Spacing.SM), pad),
		Title:     text(t.Typography.H1, c.Text).MarginBottom(1),
		Subtitle:  text(t.Typography.H3, c.TextSecondary),
		Body:      text(t.Typography.Body, c.Text),
		Muted:     text(t.Typography.Body, c.TextSecondary),
		Label:     text(t.Typography.H3, c.Text),
		Input:     input,
		Focused:   input.BorderForeground(c.Secondary),
		Button:    text(t.Typography.Button, c.Background).Background(c.Primary).Padding(0, pad),
		Secondary: text(t.Typography.Button, c.Secondary),
		Card:      card,
		CardFocus: card.BorderForeground(c.Secondary),
		CodeSlot:  slot,
		CodeFocus: slot.BorderForeground(c.Secondary),
		Error:     lipgloss.NewStyle().Foreground(c.Error).Bold(true),
		Success:   lipgloss.NewStyle().Foreground(c.Success),
		Info:      lipgloss.NewStyle().Foreground(c.Info),
		Footer:    lipgloss.NewStyle().Foreground(c.Gray500).MarginTop(1),
	}
}
