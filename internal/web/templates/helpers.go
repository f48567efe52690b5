package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/satchel/internal/util"
)

func formatScore(v float64) string {
	return util.FormatScore(v)
}

func formatPercent(v float64) string {
	return util.FormatPercent(v)
}

func levelClass(l string) string {
	return "level-" + strings.ToLower(l)
}

func answerURL(sessionID string) templ.SafeURL {
	return templ.URL(fmt.Sprintf("/sessions/%s/answer", sessionID))
}

func quizURL(slug string) templ.SafeURL {
	return templ.URL("/quiz/" + slug)
}

func profileURL(sessionID string) templ.SafeURL {
	return templ.URL("/api/profiles/" + sessionID)
}

// html writes pre-escaped markup fragments and escapes values, stopping at the
// first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}
