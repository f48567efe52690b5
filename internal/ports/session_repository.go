package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/satchel/internal/domain"
)

type SessionRepository interface {
	// Save inserts the session or replaces its state.
	Save(ctx context.Context, session *domain.StoredSession) error
	GetByID(ctx context.Context, id string) (*domain.StoredSession, error)
	Delete(ctx context.Context, id string) error
	// DeleteStaleBefore removes incomplete sessions last touched before the cutoff.
	DeleteStaleBefore(ctx context.Context, before time.Time) (int64, error)
	Count(ctx context.Context, quizSlug *string) (int64, error)
}
