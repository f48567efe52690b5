package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/service"
	"github.com/emiliopalmerini/satchel/internal/web/templates"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrInvalidOptionIndex):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrSessionAlreadyTerminal):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrSessionStateMismatch):
		// the quiz was re-imported under the same slug after the session began
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) quizTitle(slug string) string {
	for _, e := range s.svc.Catalog().List() {
		if e.Slug == slug {
			return e.Title
		}
	}
	return slug
}

func questionView(title, sessionID string, answered int, node *quiz.NodeView) templates.QuestionView {
	return templates.QuestionView{
		QuizTitle: title,
		SessionID: sessionID,
		Number:    answered + 1,
		Question:  node.Question,
		Options:   node.Options,
	}
}

func resultView(title, sessionID string, p *quiz.Profile) templates.ResultView {
	traits := make([]templates.TraitScore, 0, len(p.Scores.Raw))
	for trait, raw := range p.Scores.Raw {
		traits = append(traits, templates.TraitScore{
			Trait:      trait,
			Raw:        raw,
			Normalized: p.Scores.Normalized[trait],
			Level:      p.Scores.Levels[trait],
		})
	}
	slices.SortFunc(traits, func(a, b templates.TraitScore) int {
		if a.Normalized != b.Normalized {
			if a.Normalized > b.Normalized {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Trait, b.Trait)
	})

	return templates.ResultView{
		QuizTitle:      title,
		SessionID:      sessionID,
		Personality:    p.PersonalityType,
		DominantTraits: p.DominantTraits,
		Traits:         traits,
		Journey:        p.QuizJourney,
	}
}
