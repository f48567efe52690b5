package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const stylesheet = `body{font-family:system-ui,sans-serif;max-width:40rem;margin:2rem auto;padding:0 1rem;color:#2b2b2b}
h1{font-weight:600}button.option{display:block;width:100%;margin:.5rem 0;padding:.75rem;text-align:left;border:1px solid #ccc;border-radius:.5rem;background:#fff;cursor:pointer}
button.option:hover{border-color:#8a5a44}.error{color:#b00020}table{border-collapse:collapse;width:100%}td,th{padding:.25rem .5rem;text-align:left}
.level-high{color:#1b7f3b}.level-moderate{color:#a06800}.level-low{color:#777}.traits li{display:inline-block;margin-right:.5rem;padding:.1rem .5rem;border-radius:1rem;background:#f1e7e1}`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title)
		h.raw(`</title><style>`, stylesheet, `</style>`,
			`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`,
			`</head><body><main id="content">`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// Index lists the quizzes that can be taken.
func Index(quizzes []QuizLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Find your bag</h1>`)
		if len(quizzes) == 0 {
			h.raw(`<p>No quizzes available.</p>`)
			return h.err
		}
		h.raw(`<ul>`)
		for _, q := range quizzes {
			h.raw(`<li><a`)
			h.attr("href", string(quizURL(q.Slug)))
			h.raw(`>`)
			h.text(q.Title)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

// Question renders the current question as a form with one button per option.
// It targets #content so htmx can swap it in place.
func Question(v QuestionView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="question"><p class="step">`)
		h.text(v.QuizTitle)
		h.raw(` · Question `, strconv.Itoa(v.Number), `</p><h1>`)
		h.text(v.Question)
		h.raw(`</h1>`)
		if v.Error != "" {
			h.raw(`<p class="error">`)
			h.text(v.Error)
			h.raw(`</p>`)
		}
		url := string(answerURL(v.SessionID))
		h.raw(`<form method="post"`)
		h.attr("action", url)
		h.attr("hx-post", url)
		h.raw(` hx-target="#content">`)
		for i, opt := range v.Options {
			h.raw(`<button class="option" type="submit" name="option_index"`)
			h.attr("value", strconv.Itoa(i))
			h.raw(`>`)
			h.text(opt)
			h.raw(`</button>`)
		}
		h.raw(`</form></section>`)
		return h.err
	})
}

// Result renders a completed profile.
func Result(v ResultView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="result"><p class="step">`)
		h.text(v.QuizTitle)
		h.raw(`</p><h1>You are the `)
		h.text(v.Personality)
		h.raw(`</h1>`)

		if len(v.DominantTraits) > 0 {
			h.raw(`<ul class="traits">`)
			for _, t := range v.DominantTraits {
				h.raw(`<li>`)
				h.text(t)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}

		if len(v.Traits) > 0 {
			h.raw(`<table><thead><tr><th>Trait</th><th>Score</th><th>Relative</th><th>Level</th></tr></thead><tbody>`)
			for _, t := range v.Traits {
				h.raw(`<tr><td>`)
				h.text(t.Trait)
				h.raw(`</td><td>`, formatScore(t.Raw), `</td><td>`, formatPercent(t.Normalized), `</td><td`)
				h.attr("class", levelClass(string(t.Level)))
				h.raw(`>`)
				h.text(string(t.Level))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<h2>Your answers</h2><ol>`)
		for _, s := range v.Journey {
			h.raw(`<li>`)
			h.text(s.Question)
			h.raw(` <strong>`)
			h.text(s.AnswerText)
			h.raw(`</strong></li>`)
		}
		h.raw(`</ol><p><a`)
		h.attr("href", string(profileURL(v.SessionID)))
		h.raw(`>Profile as JSON</a></p></section>`)
		return h.err
	})
}

// NotFound renders a minimal not-found message.
func NotFound(what string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Not found</h1><p>`)
		h.text(what)
		h.raw(`</p><p><a href="/">Back to quizzes</a></p>`)
		return h.err
	})
}

// Gone is shown for a session whose quiz was replaced after it started.
func Gone(what string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Quiz changed</h1><p>`)
		h.text(what)
		h.raw(`</p><p><a href="/">Back to quizzes</a></p>`)
		return h.err
	})
}
