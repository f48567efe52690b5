package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/service"
)

type quizResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// stepResponse is the shape of every session transition: kind "continue"
// carries the next node, kind "done" carries the profile.
type stepResponse struct {
	SessionID string              `json:"session_id"`
	Quiz      string              `json:"quiz,omitempty"`
	Kind      quiz.TransitionKind `json:"kind"`
	Node      *quiz.NodeView      `json:"node,omitempty"`
	Profile   *quiz.Profile       `json:"profile,omitempty"`
	Answered  int                 `json:"answered,omitempty"`
}

type answerRequest struct {
	OptionIndex *int `json:"option_index"`
}

type profileResponse struct {
	SessionID string       `json:"session_id"`
	Quiz      string       `json:"quiz"`
	CreatedAt string       `json:"created_at"`
	Profile   quiz.Profile `json:"profile"`
}

type statsResponse struct {
	Sessions       int64                     `json:"sessions"`
	Completed      int64                     `json:"completed"`
	CompletionRate float64                   `json:"completion_rate"`
	AvgJourney     float64                   `json:"avg_journey"`
	Personalities  []domain.PersonalityShare `json:"personalities"`
}

func stateResponse(st *service.State) stepResponse {
	resp := stepResponse{
		SessionID: st.SessionID,
		Quiz:      st.QuizSlug,
		Kind:      quiz.KindContinue,
		Node:      st.Node,
		Answered:  len(st.Path),
	}
	if st.Done() {
		resp.Kind = quiz.KindDone
		resp.Profile = st.Profile
	}
	return resp
}

func (s *Server) handleAPIQuizzes(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.Catalog().List()
	out := make([]quizResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, quizResponse{Slug: e.Slug, Title: e.Title})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIStartSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Start(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stateResponse(st))
}

func (s *Server) handleAPIGetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(st))
}

func (s *Server) handleAPIAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionIndex == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"option_index\": <int>}"})
		return
	}

	id := chi.URLParam(r, "id")
	tr, err := s.svc.Answer(r.Context(), id, *req.OptionIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := stepResponse{SessionID: id, Kind: tr.Kind, Node: tr.Node, Profile: tr.Profile}
	if tr.Profile != nil {
		resp.Answered = len(tr.Profile.QuizJourney)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIProfile(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		SessionID: rec.SessionID,
		Quiz:      rec.QuizSlug,
		CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Profile:   rec.Profile,
	})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	var slug *string
	if q := r.URL.Query().Get("quiz"); q != "" {
		slug = &q
	}
	stats, err := s.svc.Stats(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Sessions:       stats.SessionCount,
		Completed:      stats.CompletedCount,
		CompletionRate: stats.CompletionRate(),
		AvgJourney:     stats.AvgJourney,
		Personalities:  stats.Shares(),
	})
}
