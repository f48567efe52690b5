package prometheus

import (
	"context"

	"github.com/emiliopalmerini/satchel/internal/ports"
)

// NoOpClient is a Prometheus client that always returns unavailable.
type NoOpClient struct{}

// NewNoOpClient creates a new no-op client for graceful degradation.
func NewNoOpClient() *NoOpClient {
	return &NoOpClient{}
}

func (c *NoOpClient) GetRollingWindowActivity(ctx context.Context, quizSlug *string, hours int) (*ports.ActivityWindow, error) {
	return &ports.ActivityWindow{WindowHours: hours}, nil
}

func (c *NoOpClient) IsAvailable(ctx context.Context) bool {
	return false
}
