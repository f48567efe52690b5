package templates

import "github.com/emiliopalmerini/satchel/internal/quiz"

type QuizLink struct {
	Slug  string
	Title string
}

type QuestionView struct {
	QuizTitle string
	SessionID string
	Number    int // 1-based
	Question  string
	Options   []string
	Error     string
}

type TraitScore struct {
	Trait      string
	Raw        float64
	Normalized float64
	Level      quiz.Level
}

type ResultView struct {
	QuizTitle      string
	SessionID      string
	Personality    string
	DominantTraits []string
	Traits         []TraitScore // ordered by normalized score, highest first
	Journey        []quiz.Step
}
