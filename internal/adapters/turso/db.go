package turso

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/satchel/internal/infrastructure/config"
	"github.com/emiliopalmerini/satchel/internal/util"
)

const localDBName = "satchel.db"

// NewDB opens the database described by cfg: a remote Turso database when a
// URL is configured, otherwise a local libsql file.
func NewDB(cfg config.Database) (*sql.DB, error) {
	if cfg.IsRemote() {
		return NewRemoteDB(cfg.URL, cfg.AuthToken)
	}

	path := cfg.Path
	if path == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dataDir, localDBName)
	}
	return NewLocalDB(path)
}

// NewRemoteDB connects to a Turso database over the Hrana protocol.
func NewRemoteDB(url, authToken string) (*sql.DB, error) {
	if authToken == "" {
		return nil, fmt.Errorf("auth token is required for remote database %s", url)
	}

	db, err := sql.Open("libsql", fmt.Sprintf("%s?authToken=%s", url, authToken))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Turso aggressively closes idle streams, so keep no idle connections.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewLocalDB opens (creating if needed) a local libsql database file.
func NewLocalDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
