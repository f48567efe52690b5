package ports_test

import (
	"testing"

	"github.com/emiliopalmerini/satchel/internal/adapters/otel"
	"github.com/emiliopalmerini/satchel/internal/adapters/prometheus"
	"github.com/emiliopalmerini/satchel/internal/adapters/turso"
	"github.com/emiliopalmerini/satchel/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestQuizRepositoryConformance(t *testing.T) {
	var _ ports.QuizRepository = (*turso.QuizRepository)(nil)
}

func TestSessionRepositoryConformance(t *testing.T) {
	var _ ports.SessionRepository = (*turso.SessionRepository)(nil)
}

func TestProfileRepositoryConformance(t *testing.T) {
	var _ ports.ProfileRepository = (*turso.ProfileRepository)(nil)
}

func TestMetricsExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}

func TestPrometheusClientConformance(t *testing.T) {
	var _ ports.PrometheusClient = (*prometheus.Client)(nil)
	var _ ports.PrometheusClient = (*prometheus.NoOpClient)(nil)
}
