package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/ports"
)

var errStorageDown = errors.New("storage down")

type memSessions struct {
	mu      sync.Mutex
	rows    map[string]domain.StoredSession
	failing bool
}

func newMemSessions() *memSessions {
	return &memSessions{rows: make(map[string]domain.StoredSession)}
}

func (m *memSessions) Save(_ context.Context, s *domain.StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStorageDown
	}
	if prev, ok := m.rows[s.ID]; ok {
		s.CreatedAt = prev.CreatedAt
	}
	m.rows[s.ID] = *s
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (*domain.StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memSessions) DeleteStaleBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.rows {
		if !s.Completed && s.UpdatedAt.Before(before) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) Count(_ context.Context, quizSlug *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.rows {
		if quizSlug == nil || s.QuizSlug == *quizSlug {
			n++
		}
	}
	return n, nil
}

type memProfiles struct {
	mu      sync.Mutex
	rows    []domain.ProfileRecord
	failing bool
}

func (m *memProfiles) Create(_ context.Context, r *domain.ProfileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStorageDown
	}
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memProfiles) GetBySessionID(_ context.Context, id string) (*domain.ProfileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.SessionID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memProfiles) List(_ context.Context, opts ports.ListProfilesOptions) ([]*domain.ProfileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ProfileRecord
	for _, r := range slices.Backward(m.rows) {
		if opts.QuizSlug != nil && r.QuizSlug != *opts.QuizSlug {
			continue
		}
		out = append(out, &r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *memProfiles) Stats(_ context.Context, quizSlug *string) (*domain.ProfileStats, error) {
	return &domain.ProfileStats{}, nil
}

type memQuizzes struct {
	rows map[string]domain.Quiz
}

func newMemQuizzes() *memQuizzes {
	return &memQuizzes{rows: make(map[string]domain.Quiz)}
}

func (m *memQuizzes) Upsert(_ context.Context, q *domain.Quiz) error {
	m.rows[q.Slug] = *q
	return nil
}

func (m *memQuizzes) GetBySlug(_ context.Context, slug string) (*domain.Quiz, error) {
	q, ok := m.rows[slug]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *memQuizzes) List(_ context.Context) ([]*domain.Quiz, error) {
	var out []*domain.Quiz
	for _, q := range m.rows {
		out = append(out, &q)
	}
	slices.SortFunc(out, func(a, b *domain.Quiz) int { return strings.Compare(a.Slug, b.Slug) })
	return out, nil
}

func (m *memQuizzes) Delete(_ context.Context, slug string) error {
	delete(m.rows, slug)
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	started  int
	outcomes map[string]int
	profiles []string
}

func (r *recordingMetrics) RecordSessionStarted(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingMetrics) RecordAnswer(_ context.Context, _ string, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = map[string]int{}
	}
	r.outcomes[outcome]++
}

func (r *recordingMetrics) ExportProfile(_ context.Context, m *ports.ProfileMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, m.PersonalityType)
	return nil
}

func (r *recordingMetrics) Close(context.Context) error { return nil }
