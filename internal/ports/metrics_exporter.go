package ports

import "context"

// MetricsExporter exports quiz activity to an external observability system.
type MetricsExporter interface {
	// RecordSessionStarted counts a new session for a quiz.
	RecordSessionStarted(ctx context.Context, quizSlug string)
	// RecordAnswer counts a submitted answer; outcome is "accepted",
	// "invalid_option" or "already_terminal".
	RecordAnswer(ctx context.Context, quizSlug, outcome string)
	// ExportProfile exports metrics for a completed profile.
	ExportProfile(ctx context.Context, m *ProfileMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// ProfileMetrics describes a completed session for metric export.
type ProfileMetrics struct {
	SessionID       string
	QuizSlug        string
	PersonalityType string
	DominantTraits  []string
	JourneyLength   int
	Normalized      map[string]float64
}
