package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/ports"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s is %T, want Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestExporter_Records(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	exp, err := newExporter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	if err != nil {
		t.Fatalf("newExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = exp.Close(ctx) })

	exp.RecordSessionStarted(ctx, "handbags")
	exp.RecordSessionStarted(ctx, "handbags")
	exp.RecordAnswer(ctx, "handbags", "accepted")
	exp.RecordAnswer(ctx, "handbags", "invalid_option")
	exp.RecordAnswer(ctx, "handbags", "accepted")
	if err := exp.ExportProfile(ctx, &ports.ProfileMetrics{
		SessionID:       "s-1",
		QuizSlug:        "handbags",
		PersonalityType: "Voyager",
		JourneyLength:   2,
		Normalized:      map[string]float64{"Bold": 1, "Calm": 0.25},
	}); err != nil {
		t.Fatalf("ExportProfile() error = %v", err)
	}

	got := collect(t, reader)

	if n := sumOf(t, got["satchel_sessions_started_total"]); n != 2 {
		t.Errorf("sessions started = %d, want 2", n)
	}
	if n := sumOf(t, got["satchel_answers_total"]); n != 3 {
		t.Errorf("answers = %d, want 3", n)
	}
	answers := got["satchel_answers_total"].Data.(metricdata.Sum[int64])
	if len(answers.DataPoints) != 2 {
		t.Errorf("answers has %d outcome series, want 2", len(answers.DataPoints))
	}
	if n := sumOf(t, got["satchel_profiles_total"]); n != 1 {
		t.Errorf("profiles = %d, want 1", n)
	}

	traits, ok := got["satchel_trait_score"].Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("trait score is %T", got["satchel_trait_score"].Data)
	}
	if len(traits.DataPoints) != 2 {
		t.Errorf("trait score has %d series, want 2", len(traits.DataPoints))
	}
}

func TestNewFromConfig_FallsBackToNoOp(t *testing.T) {
	exp := NewFromConfig(context.Background(), Config{Enabled: true}, zap.NewNop())
	if _, ok := exp.(*NoOpExporter); !ok {
		t.Errorf("NewFromConfig() = %T, want *NoOpExporter", exp)
	}
}

func TestNewExporter_Disabled(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Endpoint: "localhost:4317"}); err == nil {
		t.Error("NewExporter() should fail when disabled")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SATCHEL_OTEL_ENABLED", "true")
	t.Setenv("SATCHEL_OTEL_ENDPOINT", "collector:4317")
	t.Setenv("SATCHEL_OTEL_INSECURE", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Active() || !cfg.Insecure || cfg.Endpoint != "collector:4317" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}
