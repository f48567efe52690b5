package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles used by the quiz screens.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style

	// question options
	Cursor lipgloss.Style
	Option lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	Container lipgloss.Style
	Card      lipgloss.Style

	// progress dots: answered or current, then remaining
	Stitched   lipgloss.Style
	Unstitched lipgloss.Style

	Error lipgloss.Style

	levels map[string]lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the shared Styles.
func Default() *Styles {
	once.Do(func() {
		defaultStyles = newStyles()
	})
	return defaultStyles
}

// Level returns the style for a trait level label.
func (s *Styles) Level(level string) lipgloss.Style {
	if st, ok := s.levels[level]; ok {
		return st
	}
	return lipgloss.NewStyle().Foreground(LevelColor(level))
}

func newStyles() *Styles {
	base := lipgloss.NewStyle()

	s := &Styles{
		Title:    base.Foreground(Cream).Bold(true).MarginBottom(1),
		Subtitle: base.Foreground(Cognac).Bold(true),
		Body:     base.Foreground(Cream),
		Muted:    base.Foreground(Taupe),

		Cursor: base.Foreground(Brass).Bold(true),
		Option: base.Foreground(Stone),

		Help:    base.Foreground(Taupe).MarginTop(1),
		HelpKey: base.Foreground(Stone).Bold(true),

		Container: base.Padding(1, 2),
		Card: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Burgundy).
			Padding(1, 2),

		Stitched:   base.Foreground(Cognac),
		Unstitched: base.Foreground(Espresso),

		Error: base.Foreground(Error),
	}

	s.levels = map[string]lipgloss.Style{
		"High":     base.Foreground(LevelColor("High")).Bold(true),
		"Moderate": base.Foreground(LevelColor("Moderate")),
		"Low":      base.Foreground(LevelColor("Low")),
	}
	return s
}
