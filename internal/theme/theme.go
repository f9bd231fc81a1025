// Package theme holds the light and dark palettes and the layout tokens
// shared by every screen.
package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Palette
// ---------------------------------------------------------------------------

// Colors is one palette. Gray50 sits closest to the background, so the gray
// scale is inverted in Dark.
type Colors struct {
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Background    lipgloss.Color
	Surface       lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Border        lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color

	Orange  lipgloss.Color
	Gray50  lipgloss.Color
	Gray100 lipgloss.Color
	Gray200 lipgloss.Color
	Gray300 lipgloss.Color
	Gray400 lipgloss.Color
	Gray500 lipgloss.Color
	Gray600 lipgloss.Color
	Gray700 lipgloss.Color
	Gray800 lipgloss.Color
	Gray900 lipgloss.Color
}

// All returns every color in declaration order.
func (c Colors) All() []lipgloss.Color {
	return []lipgloss.Color{
		c.Primary, c.Secondary, c.Background, c.Surface,
		c.Text, c.TextSecondary, c.Border,
		c.Success, c.Warning, c.Error, c.Info,
		c.Orange,
		c.Gray50, c.Gray100, c.Gray200, c.Gray300, c.Gray400,
		c.Gray500, c.Gray600, c.Gray700, c.Gray800, c.Gray900,
	}
}

var lightColors = Colors{
	Primary:       "#000000",
	Secondary:     "#f97316",
	Background:    "#ffffff",
	Surface:       "#f8f9fa",
	Text:          "#000000",
	TextSecondary: "#6b7280",
	Border:        "#e5e7eb",
	Success:       "#10b981",
	Warning:       "#f59e0b",
	Error:         "#ef4444",
	Info:          "#3b82f6",

	Orange:  "#f97316",
	Gray50:  "#f9fafb",
	Gray100: "#f3f4f6",
	Gray200: "#e5e7eb",
	Gray300: "#d1d5db",
	Gray400: "#9ca3af",
	Gray500: "#6b7280",
	Gray600: "#4b5563",
	Gray700: "#374151",
	Gray800: "#1f2937",
	Gray900: "#111827",
}

var darkColors = Colors{
	Primary:       "#ffffff",
	Secondary:     "#f97316",
	Background:    "#111827",
	Surface:       "#1f2937",
	Text:          "#ffffff",
	TextSecondary: "#9ca3af",
	Border:        "#374151",
	Success:       "#10b981",
	Warning:       "#f59e0b",
	Error:         "#ef4444",
	Info:          "#3b82f6",

	Orange:  "#f97316",
	Gray50:  "#111827",
	Gray100: "#1f2937",
	Gray200: "#374151",
	Gray300: "#4b5563",
	Gray400: "#6b7280",
	Gray500: "#9ca3af",
	Gray600: "#d1d5db",
	Gray700: "#e5e7eb",
	Gray800: "#f3f4f6",
	Gray900: "#f9fafb",
}

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

// Spacing values are in points. The terminal front end divides by Cell.
type Spacing struct {
	XS, SM, MD, LG, XL, XXL int
}

type Radii struct {
	SM, MD, LG, XL int
}

// TextStyle is font size, weight and line height.
type TextStyle struct {
	Size       int
	Weight     int
	LineHeight int
}

// Bold reports whether the weight renders bold in a terminal.
func (t TextStyle) Bold() bool { return t.Weight >= 600 }

type Typography struct {
	H1, H2, H3, Body, Button TextStyle
}

// Cell is the number of points treated as one terminal column.
const Cell = 8

var spacing = Spacing{XS: 4, SM: 8, MD: 16, LG: 24, XL: 32, XXL: 48}

var radii = Radii{SM: 8, MD: 12, LG: 16, XL: 24}

var typography = Typography{
	H1:     TextStyle{Size: 24, Weight: 600, LineHeight: 32},
	H2:     TextStyle{Size: 20, Weight: 600, LineHeight: 28},
	H3:     TextStyle{Size: 18, Weight: 600, LineHeight: 24},
	Body:   TextStyle{Size: 14, Weight: 400, LineHeight: 20},
	Button: TextStyle{Size: 16, Weight: 700, LineHeight: 24},
}

// ---------------------------------------------------------------------------
// Themes
// ---------------------------------------------------------------------------

// Theme bundles a palette with the shared tokens.
type Theme struct {
	Name         string
	Dark         bool
	Colors       Colors
	Spacing      Spacing
	BorderRadius Radii
	Typography   Typography
}

var (
	Light = Theme{
		Name:         "light",
		Colors:       lightColors,
		Spacing:      spacing,
		BorderRadius: radii,
		Typography:   typography,
	}
	Dark = Theme{
		Name:         "dark",
		Dark:         true,
		Colors:       darkColors,
		Spacing:      spacing,
		BorderRadius: radii,
		Typography:   typography,
	}
)

// For returns Dark when dark is set, otherwise Light.
func For(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}
