package theme

import "github.com/charmbracelet/lipgloss"

// Leather and brass palette
var (
	// Primary colors
	Cognac   = lipgloss.Color("#B5651D")
	Tan      = lipgloss.Color("#D2A679")
	Burgundy = lipgloss.Color("#8C2F39")
	Brass    = lipgloss.Color("#C9A227")

	// Neutrals
	Cream    = lipgloss.Color("#F5EBDD")
	Stone    = lipgloss.Color("#A8A29E")
	Taupe    = lipgloss.Color("#78716C")
	Espresso = lipgloss.Color("#44403C")

	// Status
	Error = lipgloss.Color("#DC2626")
)

// LevelColor maps a trait level to its color.
func LevelColor(level string) lipgloss.Color {
	switch level {
	case "High":
		return Cognac
	case "Moderate":
		return Tan
	default:
		return Taupe
	}
}
