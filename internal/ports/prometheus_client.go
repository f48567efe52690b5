package ports

import "context"

// PrometheusClient queries Prometheus for recent quiz activity exported by
// the metrics exporter.
type PrometheusClient interface {
	// GetRollingWindowActivity sums activity over the last hours, optionally
	// for one quiz.
	GetRollingWindowActivity(ctx context.Context, quizSlug *string, hours int) (*ActivityWindow, error)
	// IsAvailable checks if Prometheus is reachable.
	IsAvailable(ctx context.Context) bool
}

// ActivityWindow is quiz activity over a rolling window.
type ActivityWindow struct {
	WindowHours   int
	Started       float64
	Completed     float64
	Answers       map[string]float64 // by outcome
	Personalities map[string]float64
	Available     bool
}
