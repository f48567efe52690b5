package prometheus

import "github.com/kelseyhightower/envconfig"

// Config holds Prometheus client configuration.
type Config struct {
	URL     string `envconfig:"URL"`
	Enabled bool   `envconfig:"ENABLED" default:"false"`
}

// LoadConfig loads Prometheus configuration from SATCHEL_PROMETHEUS_*
// environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("satchel_prometheus", &cfg)
	return cfg, err
}
