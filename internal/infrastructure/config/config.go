package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Database holds libsql/Turso configuration. An empty URL selects a local
// database file (Path, or the XDG data directory when Path is empty).
type Database struct {
	URL       string `envconfig:"SATCHEL_DATABASE_URL"`
	AuthToken string `envconfig:"SATCHEL_AUTH_TOKEN"`
	Path      string `envconfig:"SATCHEL_DATABASE_PATH"`
}

// IsRemote reports whether the database is a remote Turso instance.
func (d Database) IsRemote() bool {
	return d.URL != ""
}

// Server holds configuration for the web server and the session service.
type Server struct {
	Database         Database      `ignored:"true"`
	Addr             string        `envconfig:"SATCHEL_ADDR" default:":8080"`
	ShutdownTimeout  time.Duration `envconfig:"SATCHEL_SHUTDOWN_TIMEOUT" default:"10s"`
	SessionCacheSize int           `envconfig:"SATCHEL_SESSION_CACHE_SIZE" default:"1024"`
	LogLevel         string        `envconfig:"SATCHEL_LOG_LEVEL" default:"info"`
}

// LoadDatabase loads database configuration from environment variables.
func LoadDatabase() (*Database, error) {
	var cfg Database
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer loads server configuration from environment variables.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
