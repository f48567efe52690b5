package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/service"
	"github.com/emiliopalmerini/satchel/internal/shared/middleware"
	"github.com/emiliopalmerini/satchel/internal/web/templates"
)

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	c := body
	if !middleware.IsHTMX(r) {
		c = templates.Layout(title, body)
	}
	if err := c.Render(r.Context(), w); err != nil {
		s.log.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		s.render(w, r, status, "Not found", templates.NotFound(err.Error()))
		return
	case http.StatusGone:
		s.render(w, r, status, "Quiz changed", templates.Gone("This quiz changed since the session started. Please start again."))
		return
	}
	s.log.Error("page failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.Catalog().List()
	links := make([]templates.QuizLink, 0, len(entries))
	for _, e := range entries {
		links = append(links, templates.QuizLink{Slug: e.Slug, Title: e.Title})
	}
	s.render(w, r, http.StatusOK, "Find your bag", templates.Index(links))
}

// handleStartPage starts a session and redirects to its page, so a reload
// does not start another one.
func (s *Server) handleStartPage(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Start(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/sessions/"+st.SessionID, http.StatusSeeOther)
}

func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderState(w, r, http.StatusOK, st, "")
}

func (s *Server) renderState(w http.ResponseWriter, r *http.Request, status int, st *service.State, errMsg string) {
	title := s.quizTitle(st.QuizSlug)
	if st.Done() {
		s.render(w, r, status, title, templates.Result(resultView(title, st.SessionID, st.Profile)))
		return
	}
	v := questionView(title, st.SessionID, len(st.Path), st.Node)
	v.Error = errMsg
	s.render(w, r, status, title, templates.Question(v))
}

func (s *Server) handleAnswerForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	idx, convErr := strconv.Atoi(r.FormValue("option_index"))
	if convErr != nil {
		idx = -1
	}

	_, err := s.svc.Answer(r.Context(), id, idx)
	if err != nil && !errors.Is(err, quiz.ErrInvalidOptionIndex) && !errors.Is(err, quiz.ErrSessionAlreadyTerminal) {
		s.renderError(w, r, err)
		return
	}

	if middleware.IsHTMX(r) || errors.Is(err, quiz.ErrInvalidOptionIndex) {
		st, getErr := s.svc.Get(r.Context(), id)
		if getErr != nil {
			s.renderError(w, r, getErr)
			return
		}
		status, msg := http.StatusOK, ""
		if errors.Is(err, quiz.ErrInvalidOptionIndex) {
			status, msg = http.StatusUnprocessableEntity, "Please pick one of the options."
		}
		s.renderState(w, r, status, st, msg)
		return
	}

	http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
}
