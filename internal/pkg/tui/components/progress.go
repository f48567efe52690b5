package components

import (
	"fmt"
	"strings"

	"github.com/emiliopalmerini/satchel/internal/pkg/tui/theme"
)

// Progress shows answered questions against the longest possible walk.
// Walks can end early, so Total is an upper bound.
type Progress struct {
	Total   int
	Current int
	styles  *theme.Styles
}

// NewProgress creates a new progress indicator
func NewProgress(total int) Progress {
	return Progress{
		Total:  total,
		styles: theme.Default(),
	}
}

// Advance records one more answered question.
func (p *Progress) Advance() {
	p.Current++
}

// View renders the progress indicator
func (p Progress) View() string {
	var b strings.Builder

	total := max(p.Total, p.Current+1)
	for i := range total {
		switch {
		case i < p.Current:
			b.WriteString(p.styles.Stitched.Render("*"))
		case i == p.Current:
			b.WriteString(p.styles.Stitched.Render("o"))
		default:
			b.WriteString(p.styles.Unstitched.Render("-"))
		}
		if i < total-1 {
			b.WriteString(" ")
		}
	}

	b.WriteString(p.styles.Muted.Render(fmt.Sprintf("  question %d", p.Current+1)))
	return b.String()
}
