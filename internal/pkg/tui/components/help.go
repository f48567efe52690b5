package components

import (
	"strings"

	"github.com/emiliopalmerini/satchel/internal/pkg/tui/theme"
)

// KeyBinding represents a key binding for the help bar
type KeyBinding struct {
	Key  string
	Desc string
}

// HelpBar renders key bindings on one line
func HelpBar(bindings ...KeyBinding) string {
	styles := theme.Default()
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, styles.HelpKey.Render(kb.Key)+styles.Muted.Render(" "+kb.Desc))
	}
	return styles.Help.Render(strings.Join(parts, "  "))
}
