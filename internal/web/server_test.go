package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/ports"
	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/service"
)

type memSessions struct {
	rows map[string]domain.StoredSession
}

func (m *memSessions) Save(_ context.Context, s *domain.StoredSession) error {
	m.rows[s.ID] = *s
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (*domain.StoredSession, error) {
	if s, ok := m.rows[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memSessions) DeleteStaleBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memSessions) Count(context.Context, *string) (int64, error) {
	return int64(len(m.rows)), nil
}

type memProfiles struct {
	rows []*domain.ProfileRecord
}

func (m *memProfiles) Create(_ context.Context, r *domain.ProfileRecord) error {
	m.rows = append(m.rows, r)
	return nil
}

func (m *memProfiles) GetBySessionID(_ context.Context, id string) (*domain.ProfileRecord, error) {
	for _, r := range m.rows {
		if r.SessionID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memProfiles) List(_ context.Context, opts ports.ListProfilesOptions) ([]*domain.ProfileRecord, error) {
	var out []*domain.ProfileRecord
	for _, r := range m.rows {
		if opts.QuizSlug == nil || r.QuizSlug == *opts.QuizSlug {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memProfiles) Stats(context.Context, *string) (*domain.ProfileStats, error) {
	stats := &domain.ProfileStats{CompletedCount: int64(len(m.rows))}
	counts := map[string]int64{}
	for _, r := range m.rows {
		counts[r.Profile.PersonalityType]++
	}
	for p, n := range counts {
		stats.Personalities = append(stats.Personalities, domain.PersonalityCount{PersonalityType: p, Count: n})
	}
	return stats, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog := service.NewCatalog()
	require.NoError(t, catalog.LoadBundled())
	svc, err := service.New(service.Deps{
		Catalog:  catalog,
		Sessions: &memSessions{rows: map[string]domain.StoredSession{}},
		Profiles: &memProfiles{},
	})
	require.NoError(t, err)
	return NewServer(svc, ":0", nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAPI_QuizFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/quizzes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	quizzes := decode[[]quizResponse](t, rec)
	assert.Equal(t, []quizResponse{{Slug: "handbag", Title: "Which bag are you?"}, {Slug: "weekend", Title: "Weekend bags"}}, quizzes)

	rec = do(t, s, http.MethodPost, "/api/quizzes/weekend/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	started := decode[stepResponse](t, rec)
	require.NotEmpty(t, started.SessionID)
	assert.Equal(t, quiz.KindContinue, started.Kind)
	assert.Equal(t, "Q1", started.Node.ID)
	assert.Len(t, started.Node.Options, 2)

	base := "/api/sessions/" + started.SessionID
	rec = do(t, s, http.MethodPost, base+"/answers", `{"option_index": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[stepResponse](t, rec)
	assert.Equal(t, quiz.KindContinue, next.Kind)
	assert.Equal(t, "Q2", next.Node.ID)

	rec = do(t, s, http.MethodPost, base+"/answers", `{"option_index": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[stepResponse](t, rec)
	assert.Equal(t, quiz.KindDone, done.Kind)
	require.NotNil(t, done.Profile)
	assert.Equal(t, "Voyager", done.Profile.PersonalityType)
	assert.Equal(t, []string{"Bold"}, done.Profile.DominantTraits)
	assert.Equal(t, 2, done.Answered)

	rec = do(t, s, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[stepResponse](t, rec)
	assert.Equal(t, quiz.KindDone, state.Kind)
	assert.Nil(t, state.Node)
	assert.Equal(t, "weekend", state.Quiz)

	rec = do(t, s, http.MethodGet, "/api/profiles/"+started.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	profile := raw["profile"].(map[string]any)
	assert.Equal(t, "Voyager", profile["personality_type"])
	assert.Contains(t, profile, "quiz_journey")
	scores := profile["scores"].(map[string]any)
	assert.Equal(t, map[string]any{"Bold": "High"}, scores["levels"])

	rec = do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[statsResponse](t, rec)
	assert.Equal(t, int64(1), stats.Completed)
	require.Len(t, stats.Personalities, 1)
	assert.Equal(t, 1.0, stats.Personalities[0].Share)
}

func TestAPI_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/quizzes/nope/sessions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/sessions/unknown/answers", `{"option_index": 0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/profiles/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	started := decode[stepResponse](t, do(t, s, http.MethodPost, "/api/quizzes/weekend/sessions", ""))
	base := "/api/sessions/" + started.SessionID + "/answers"

	for _, body := range []string{"", "not json", `{}`, `{"option_index": "one"}`} {
		rec = do(t, s, http.MethodPost, base, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}

	rec = do(t, s, http.MethodPost, base, `{"option_index": 9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "Q1")

	rec = do(t, s, http.MethodGet, "/api/profiles/"+started.SessionID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	do(t, s, http.MethodPost, base, `{"option_index": 1}`)
	do(t, s, http.MethodPost, base, `{"option_index": 1}`)
	rec = do(t, s, http.MethodPost, base, `{"option_index": 0}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_SessionFromReplacedQuizIsGone(t *testing.T) {
	sessions := &memSessions{rows: map[string]domain.StoredSession{}}
	sessions.rows["old"] = domain.StoredSession{
		ID:       "old",
		QuizSlug: "weekend",
		State:    []byte(`{"version":2,"session_id":"old","root_id":"retired","current_node_id":"retired","done":false,"path":[],"raw_scores":{}}`),
	}

	catalog := service.NewCatalog()
	require.NoError(t, catalog.LoadBundled())
	svc, err := service.New(service.Deps{Catalog: catalog, Sessions: sessions, Profiles: &memProfiles{}})
	require.NoError(t, err)
	s := NewServer(svc, ":0", nil)

	rec := do(t, s, http.MethodGet, "/api/sessions/old", "")
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/sessions/old/answers", `{"option_index": 0}`)
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = do(t, s, http.MethodGet, "/sessions/old", "")
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Body.String(), "start again")
}

func TestAPI_ExportProfiles(t *testing.T) {
	s := newTestServer(t)
	for _, answers := range [][]int{{0, 0}, {1, 1}} {
		started := decode[stepResponse](t, do(t, s, http.MethodPost, "/api/quizzes/weekend/sessions", ""))
		for _, a := range answers {
			body, _ := json.Marshal(answerRequest{OptionIndex: &a})
			do(t, s, http.MethodPost, "/api/sessions/"+started.SessionID+"/answers", string(body))
		}
	}

	rec := do(t, s, http.MethodGet, "/api/export/profiles?format=csv&quiz=weekend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "session_id,quiz,personality_type"))

	rec = do(t, s, http.MethodGet, "/api/export/profiles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var exported []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	assert.Len(t, exported, 2)

	rec = do(t, s, http.MethodGet, "/api/export/profiles?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPages_FormFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/quiz/handbag"`)

	rec = do(t, s, http.MethodGet, "/quiz/weekend", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/sessions/"))

	rec = do(t, s, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pick a weekend")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")

	post := func(index string, htmx bool) *httptest.ResponseRecorder {
		form := url.Values{"option_index": {index}}
		req := httptest.NewRequest(http.MethodPost, location+"/answer", bytes.NewBufferString(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if htmx {
			req.Header.Set("HX-Request", "true")
		}
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec = post("7", false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please pick one of the options.")

	rec = post("1", false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))

	rec = post("1", true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "You are the Harbor")
	assert.NotContains(t, body, "<!DOCTYPE html>", "htmx gets a fragment")

	rec = do(t, s, http.MethodGet, "/sessions/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/quiz/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
