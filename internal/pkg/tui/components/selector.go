package components

import (
	"fmt"
	"strings"

	"github.com/emiliopalmerini/satchel/internal/pkg/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
)

// Selector is a single-choice list of answers. Options keep their index
// order so Cursor is the option index to submit.
type Selector struct {
	Label   string
	Options []string
	Cursor  int
	styles  *theme.Styles
}

// NewSelector creates a selector with the cursor on the first option
func NewSelector(label string, options []string) Selector {
	return Selector{
		Label:   label,
		Options: options,
		styles:  theme.Default(),
	}
}

// Update moves the cursor on navigation keys. Choosing is left to the caller.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	if len(s.Options) == 0 {
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "k", "up":
			if s.Cursor > 0 {
				s.Cursor--
			}
		case "j", "down":
			if s.Cursor < len(s.Options)-1 {
				s.Cursor++
			}
		case "g", "home":
			s.Cursor = 0
		case "G", "end":
			s.Cursor = len(s.Options) - 1
		}
	}

	return s, nil
}

// Shortcut returns the option index for a digit key ("1" is the first
// option). Only the first nine options have shortcuts.
func (s Selector) Shortcut(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	if idx >= len(s.Options) {
		return 0, false
	}
	return idx, true
}

// View renders the selector
func (s Selector) View() string {
	var b strings.Builder

	b.WriteString(s.styles.Subtitle.Render(s.Label))
	b.WriteString("\n\n")

	for i, opt := range s.Options {
		indicator := " "
		label := s.styles.Option.Render(opt)
		if i == s.Cursor {
			indicator = s.styles.Cursor.Render(">")
			label = s.styles.Cursor.Render(opt)
		}

		number := " "
		if i < 9 {
			number = s.styles.Muted.Render(fmt.Sprintf("%d", i+1))
		}

		b.WriteString(fmt.Sprintf("  %s %s  %s\n", indicator, number, label))
	}

	return b.String()
}
