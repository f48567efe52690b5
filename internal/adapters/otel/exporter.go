// Package otel exports quiz activity as OpenTelemetry metrics over OTLP/gRPC.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/satchel/internal/ports"
)

const (
	serviceName    = "satchel"
	serviceVersion = "1.0.0"
)

// Exporter records quiz metrics on an OTEL meter provider.
type Exporter struct {
	provider        *sdkmetric.MeterProvider
	sessionsStarted metric.Int64Counter
	answers         metric.Int64Counter
	profiles        metric.Int64Counter
	journeyHist     metric.Int64Histogram
	traitHist       metric.Float64Histogram
}

// NewExporter creates an exporter that pushes to the configured OTLP collector.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	sessionsStarted, err := meter.Int64Counter(
		"satchel_sessions_started_total",
		metric.WithDescription("Quiz sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	answers, err := meter.Int64Counter(
		"satchel_answers_total",
		metric.WithDescription("Answers submitted, by outcome"),
		metric.WithUnit("{answer}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating answers counter: %w", err)
	}

	profiles, err := meter.Int64Counter(
		"satchel_profiles_total",
		metric.WithDescription("Completed profiles, by personality"),
		metric.WithUnit("{profile}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating profiles counter: %w", err)
	}

	journeyHist, err := meter.Int64Histogram(
		"satchel_journey_length",
		metric.WithDescription("Answers given before reaching a result"),
		metric.WithUnit("{answer}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating journey histogram: %w", err)
	}

	traitHist, err := meter.Float64Histogram(
		"satchel_trait_score",
		metric.WithDescription("Normalized trait scores of completed profiles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trait histogram: %w", err)
	}

	return &Exporter{
		provider:        provider,
		sessionsStarted: sessionsStarted,
		answers:         answers,
		profiles:        profiles,
		journeyHist:     journeyHist,
		traitHist:       traitHist,
	}, nil
}

func (e *Exporter) RecordSessionStarted(ctx context.Context, quizSlug string) {
	e.sessionsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("quiz", quizSlug)))
}

func (e *Exporter) RecordAnswer(ctx context.Context, quizSlug, outcome string) {
	e.answers.Add(ctx, 1, metric.WithAttributes(
		attribute.String("quiz", quizSlug),
		attribute.String("outcome", outcome),
	))
}

// ExportProfile records a completed profile.
func (e *Exporter) ExportProfile(ctx context.Context, m *ports.ProfileMetrics) error {
	quiz := attribute.String("quiz", m.QuizSlug)

	e.profiles.Add(ctx, 1, metric.WithAttributes(quiz, attribute.String("personality", m.PersonalityType)))
	e.journeyHist.Record(ctx, int64(m.JourneyLength), metric.WithAttributes(quiz))
	for trait, v := range m.Normalized {
		e.traitHist.Record(ctx, v, metric.WithAttributes(quiz, attribute.String("trait", trait)))
	}
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}

// NewFromConfig returns an OTLP exporter when configured, falling back to a
// no-op exporter when disabled or when the collector cannot be set up.
func NewFromConfig(ctx context.Context, cfg Config, log *zap.Logger) ports.MetricsExporter {
	if !cfg.Active() {
		return NewNoOpExporter()
	}
	exp, err := NewExporter(ctx, cfg)
	if err != nil {
		log.Warn("metrics export disabled", zap.Error(err))
		return NewNoOpExporter()
	}
	log.Info("exporting metrics", zap.String("endpoint", cfg.Endpoint))
	return exp
}
