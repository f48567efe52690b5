package ports

import (
	"context"

	"github.com/emiliopalmerini/satchel/internal/domain"
)

type QuizRepository interface {
	Upsert(ctx context.Context, quiz *domain.Quiz) error
	GetBySlug(ctx context.Context, slug string) (*domain.Quiz, error)
	List(ctx context.Context) ([]*domain.Quiz, error)
	Delete(ctx context.Context, slug string) error
}
