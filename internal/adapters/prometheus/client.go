// Package prometheus reads back the quiz metrics that the OTLP exporter
// publishes, through the Prometheus HTTP query API.
package prometheus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/emiliopalmerini/satchel/internal/ports"
)

// Metric names as published by the OTLP exporter.
const (
	sessionsMetric = "satchel_sessions_started_total"
	answersMetric  = "satchel_answers_total"
	profilesMetric = "satchel_profiles_total"
)

// Client queries Prometheus for recent quiz activity.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Prometheus client.
func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled || cfg.URL == "" {
		return nil, errors.New("prometheus client is disabled or URL not configured")
	}

	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// NewFromConfig returns a client when configured, otherwise a no-op client.
func NewFromConfig(cfg Config) ports.PrometheusClient {
	c, err := NewClient(cfg)
	if err != nil {
		return NewNoOpClient()
	}
	return c
}

// prometheusResponse represents the JSON response from Prometheus query API.
type prometheusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Data   struct {
		ResultType string `json:"resultType"`
		Result     []struct {
			Metric map[string]string `json:"metric"`
			Value  []any             `json:"value"`
		} `json:"result"`
	} `json:"data"`
}

// GetRollingWindowActivity sums quiz activity over the last hours.
func (c *Client) GetRollingWindowActivity(ctx context.Context, quizSlug *string, hours int) (*ports.ActivityWindow, error) {
	w := &ports.ActivityWindow{WindowHours: hours}
	sel := selector(quizSlug)

	started, err := c.queryVector(ctx, fmt.Sprintf("sum(increase(%s%s[%dh]))", sessionsMetric, sel, hours), "")
	if err != nil {
		return w, fmt.Errorf("querying sessions: %w", err)
	}
	w.Started = started[""]

	w.Answers, err = c.queryVector(ctx, fmt.Sprintf("sum by (outcome) (increase(%s%s[%dh]))", answersMetric, sel, hours), "outcome")
	if err != nil {
		return w, fmt.Errorf("querying answers: %w", err)
	}

	w.Personalities, err = c.queryVector(ctx, fmt.Sprintf("sum by (personality) (increase(%s%s[%dh]))", profilesMetric, sel, hours), "personality")
	if err != nil {
		return w, fmt.Errorf("querying profiles: %w", err)
	}
	for _, n := range w.Personalities {
		w.Completed += n
	}

	w.Available = true
	return w, nil
}

func selector(quizSlug *string) string {
	if quizSlug == nil {
		return ""
	}
	return fmt.Sprintf("{quiz=%q}", *quizSlug)
}

// IsAvailable checks if Prometheus is reachable.
func (c *Client) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/-/ready", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// queryVector executes an instant query and returns each sample keyed by
// the given label ("" keys a single aggregated sample).
func (c *Client) queryVector(ctx context.Context, query, label string) (map[string]float64, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/query")
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var promResp prometheusResponse
	if err := json.NewDecoder(resp.Body).Decode(&promResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if promResp.Status != "success" {
		return nil, fmt.Errorf("prometheus query failed: %s %s", promResp.Status, promResp.Error)
	}

	out := make(map[string]float64, len(promResp.Data.Result))
	for _, r := range promResp.Data.Result {
		if len(r.Value) < 2 {
			return nil, errors.New("unexpected result format")
		}
		s, ok := r.Value[1].(string)
		if !ok {
			return nil, errors.New("unexpected value type")
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value: %w", err)
		}
		out[r.Metric[label]] += v
	}
	return out, nil
}
