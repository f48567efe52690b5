package otel

import (
	"context"

	"github.com/emiliopalmerini/satchel/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordSessionStarted(ctx context.Context, quizSlug string) {}

func (e *NoOpExporter) RecordAnswer(ctx context.Context, quizSlug, outcome string) {}

func (e *NoOpExporter) ExportProfile(ctx context.Context, m *ports.ProfileMetrics) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
