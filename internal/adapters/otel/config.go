package otel

import "github.com/kelseyhightower/envconfig"

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string `envconfig:"ENDPOINT"`
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Insecure bool   `envconfig:"INSECURE" default:"false"`
}

// Active reports whether metrics should be shipped to a collector.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}

// LoadConfig loads OTEL configuration from SATCHEL_OTEL_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("satchel_otel", &cfg)
	return cfg, err
}
