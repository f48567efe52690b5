// Package service hosts quiz sessions: it creates them from the catalog,
// keeps active ones in memory, persists their state after every answer and
// stores the profile once a session completes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/ports"
	"github.com/emiliopalmerini/satchel/internal/quiz"
)

const DefaultCacheSize = 1024

// Answer outcomes reported to the metrics exporter.
const (
	OutcomeAccepted        = "accepted"
	OutcomeInvalidOption   = "invalid_option"
	OutcomeAlreadyTerminal = "already_terminal"
)

// Deps are the collaborators of a Service. Metrics and Logger are optional.
type Deps struct {
	Catalog   *Catalog
	Sessions  ports.SessionRepository
	Profiles  ports.ProfileRepository
	Metrics   ports.MetricsExporter
	Logger    *zap.Logger
	CacheSize int
}

// Service runs quiz sessions. Safe for concurrent use: requests for the same
// session are serialized, different sessions proceed in parallel.
type Service struct {
	catalog  *Catalog
	sessions ports.SessionRepository
	profiles ports.ProfileRepository
	metrics  ports.MetricsExporter
	log      *zap.Logger
	active   *lru.Cache[string, *activeSession]
	now      func() time.Time
}

type activeSession struct {
	mu        sync.Mutex
	quizSlug  string
	session   *quiz.Session
	createdAt time.Time
	touchedAt time.Time
}

func New(d Deps) (*Service, error) {
	if d.Catalog == nil || d.Sessions == nil || d.Profiles == nil {
		return nil, errors.New("service: catalog and repositories are required")
	}
	if d.CacheSize <= 0 {
		d.CacheSize = DefaultCacheSize
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = noopMetrics{}
	}

	active, err := lru.New[string, *activeSession](d.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}

	return &Service{
		catalog:  d.Catalog,
		sessions: d.Sessions,
		profiles: d.Profiles,
		metrics:  d.Metrics,
		log:      d.Logger,
		active:   active,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// State is a snapshot of a session.
type State struct {
	SessionID string
	QuizSlug  string
	Node      *quiz.NodeView // nil once done
	Path      []quiz.Step
	Profile   *quiz.Profile // nil until done
}

func (st *State) Done() bool { return st.Profile != nil }

// Start creates a session at the root of the quiz registered under slug.
func (s *Service) Start(ctx context.Context, quizSlug string) (*State, error) {
	g, ok := s.catalog.Get(quizSlug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizSlug)
	}

	as := &activeSession{
		quizSlug:  quizSlug,
		session:   quiz.NewSession(g),
		createdAt: s.now(),
	}
	as.touchedAt = as.createdAt
	id := as.session.ID()
	s.active.Add(id, as)
	s.persist(ctx, as)
	s.metrics.RecordSessionStarted(ctx, quizSlug)

	s.log.Debug("session started", zap.String("session_id", id), zap.String("quiz", quizSlug))
	return as.snapshot(), nil
}

// Answer submits optionIndex for the session's current question. Errors from
// the traversal (invalid index, already terminal) are returned unchanged so
// callers can match them with errors.Is.
func (s *Service) Answer(ctx context.Context, sessionID string, optionIndex int) (*quiz.Transition, error) {
	as, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	as.mu.Lock()
	defer as.mu.Unlock()

	tr, err := as.session.Submit(optionIndex)
	switch {
	case errors.Is(err, quiz.ErrInvalidOptionIndex):
		s.metrics.RecordAnswer(ctx, as.quizSlug, OutcomeInvalidOption)
		return nil, err
	case errors.Is(err, quiz.ErrSessionAlreadyTerminal):
		s.metrics.RecordAnswer(ctx, as.quizSlug, OutcomeAlreadyTerminal)
		return nil, err
	case err != nil:
		return nil, err
	}
	s.metrics.RecordAnswer(ctx, as.quizSlug, OutcomeAccepted)
	as.touchedAt = s.now()

	s.persist(ctx, as)
	if tr.Kind == quiz.KindDone {
		s.complete(ctx, as, tr.Profile)
	}
	return tr, nil
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, sessionID string) (*State, error) {
	as, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.snapshot(), nil
}

// Profile returns the stored profile of a completed session.
func (s *Service) Profile(ctx context.Context, sessionID string) (*domain.ProfileRecord, error) {
	rec, err := s.profiles.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	// The profile write is best-effort; fall back to the live session.
	st, err := s.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, sessionID)
		}
		return nil, err
	}
	if st.Profile == nil {
		return nil, fmt.Errorf("%w: session %s is still in progress", ErrProfileNotFound, sessionID)
	}
	return &domain.ProfileRecord{
		SessionID: sessionID,
		QuizSlug:  st.QuizSlug,
		Profile:   *st.Profile,
		CreatedAt: s.now(),
	}, nil
}

func (s *Service) ListProfiles(ctx context.Context, opts ports.ListProfilesOptions) ([]*domain.ProfileRecord, error) {
	return s.profiles.List(ctx, opts)
}

func (s *Service) Stats(ctx context.Context, quizSlug *string) (*domain.ProfileStats, error) {
	return s.profiles.Stats(ctx, quizSlug)
}

// PurgeStale deletes unfinished sessions idle for longer than maxIdle, both
// stored and in memory.
func (s *Service) PurgeStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxIdle)
	n, err := s.sessions.DeleteStaleBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range s.active.Keys() {
		as, ok := s.active.Peek(id)
		if !ok {
			continue
		}
		as.mu.Lock()
		stale := !as.session.Done() && as.touchedAt.Before(cutoff)
		as.mu.Unlock()
		if stale {
			s.active.Remove(id)
		}
	}
	return n, nil
}

// lookup finds an active session, rehydrating it from storage when it is not
// in memory.
func (s *Service) lookup(ctx context.Context, sessionID string) (*activeSession, error) {
	if as, ok := s.active.Get(sessionID); ok {
		return as, nil
	}

	stored, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	g, ok := s.catalog.Get(stored.QuizSlug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, stored.QuizSlug)
	}
	sess, err := quiz.Deserialize(stored.State, g)
	if err != nil {
		return nil, fmt.Errorf("restoring session %s: %w", sessionID, err)
	}

	as := &activeSession{
		quizSlug:  stored.QuizSlug,
		session:   sess,
		createdAt: stored.CreatedAt,
		touchedAt: stored.UpdatedAt,
	}
	if prev, found, _ := s.active.PeekOrAdd(sessionID, as); found {
		return prev, nil
	}
	s.log.Debug("session restored", zap.String("session_id", sessionID), zap.Int("answers", len(sess.Path())))
	return as, nil
}

// persist saves the session state. Failures are logged, the in-memory
// session stays authoritative.
func (s *Service) persist(ctx context.Context, as *activeSession) {
	blob, err := quiz.Serialize(as.session)
	if err != nil {
		s.log.Error("serializing session", zap.String("session_id", as.session.ID()), zap.Error(err))
		return
	}
	err = s.sessions.Save(ctx, &domain.StoredSession{
		ID:          as.session.ID(),
		QuizSlug:    as.quizSlug,
		State:       blob,
		AnswerCount: int64(len(as.session.Path())),
		Completed:   as.session.Done(),
		CreatedAt:   as.createdAt,
		UpdatedAt:   as.touchedAt,
	})
	if err != nil {
		s.log.Error("saving session", zap.String("session_id", as.session.ID()), zap.Error(err))
	}
}

// complete stores the profile and exports its metrics. Both are best-effort.
func (s *Service) complete(ctx context.Context, as *activeSession, p *quiz.Profile) {
	id := as.session.ID()
	err := s.profiles.Create(ctx, &domain.ProfileRecord{
		SessionID: id,
		QuizSlug:  as.quizSlug,
		Profile:   *p.Clone(),
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.Error("saving profile", zap.String("session_id", id), zap.Error(err))
	}

	err = s.metrics.ExportProfile(ctx, &ports.ProfileMetrics{
		SessionID:       id,
		QuizSlug:        as.quizSlug,
		PersonalityType: p.PersonalityType,
		DominantTraits:  p.DominantTraits,
		JourneyLength:   len(p.QuizJourney),
		Normalized:      p.Scores.Normalized,
	})
	if err != nil {
		s.log.Warn("exporting profile metrics", zap.String("session_id", id), zap.Error(err))
	}

	s.log.Info("session completed",
		zap.String("session_id", id),
		zap.String("quiz", as.quizSlug),
		zap.String("personality", p.PersonalityType),
		zap.Strings("dominant_traits", p.DominantTraits),
	)
}

func (as *activeSession) snapshot() *State {
	st := &State{
		SessionID: as.session.ID(),
		QuizSlug:  as.quizSlug,
		Path:      as.session.Path(),
		Profile:   as.session.Profile(),
	}
	if node, ok := as.session.CurrentNode(); ok {
		st.Node = node
	}
	return st
}

type noopMetrics struct{}

func (noopMetrics) RecordSessionStarted(context.Context, string)               {}
func (noopMetrics) RecordAnswer(context.Context, string, string)               {}
func (noopMetrics) ExportProfile(context.Context, *ports.ProfileMetrics) error { return nil }
func (noopMetrics) Close(context.Context) error                                { return nil }
