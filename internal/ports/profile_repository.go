package ports

import (
	"context"

	"github.com/emiliopalmerini/satchel/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.ProfileRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.ProfileRecord, error)
	List(ctx context.Context, opts ListProfilesOptions) ([]*domain.ProfileRecord, error)
	Stats(ctx context.Context, quizSlug *string) (*domain.ProfileStats, error)
}

type ListProfilesOptions struct {
	Limit    int
	QuizSlug *string
}
