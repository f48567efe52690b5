package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/adapters/otel"
	"github.com/emiliopalmerini/satchel/internal/adapters/prometheus"
	"github.com/emiliopalmerini/satchel/internal/adapters/turso"
	"github.com/emiliopalmerini/satchel/internal/infrastructure/config"
	"github.com/emiliopalmerini/satchel/internal/infrastructure/logging"
	"github.com/emiliopalmerini/satchel/internal/migrate"
	"github.com/emiliopalmerini/satchel/internal/ports"
	"github.com/emiliopalmerini/satchel/internal/service"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	DB         *sql.DB
	Repos      *turso.Repositories
	Catalog    *service.Catalog
	Service    *service.Service
	Metrics    ports.MetricsExporter
	Prometheus ports.PrometheusClient
	Logger     *zap.Logger
	Config     *config.Server
}

// NewAppContext loads configuration from the environment, opens and migrates
// the database and builds the session service over the bundled and stored
// quizzes.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := turso.NewDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	otelCfg, err := otel.LoadConfig()
	if err != nil {
		log.Warn("invalid OTEL configuration, metrics disabled", zap.Error(err))
	}
	metrics := otel.NewFromConfig(ctx, otelCfg, log)

	a, err := newAppContext(ctx, db, metrics, log, cfg.SessionCacheSize)
	if err != nil {
		_ = metrics.Close(ctx)
		_ = db.Close()
		return nil, err
	}
	promCfg, err := prometheus.LoadConfig()
	if err != nil {
		log.Warn("invalid Prometheus configuration, live stats disabled", zap.Error(err))
	}
	a.Prometheus = prometheus.NewFromConfig(promCfg)
	a.Config = cfg
	return a, nil
}

// newAppContext wires the service over an already migrated database.
func newAppContext(ctx context.Context, db *sql.DB, metrics ports.MetricsExporter, log *zap.Logger, cacheSize int) (*AppContext, error) {
	repos := turso.NewRepositories(db)

	catalog := service.NewCatalog()
	if err := catalog.LoadBundled(); err != nil {
		return nil, err
	}
	n, err := catalog.LoadStored(ctx, repos.Quizzes, log)
	if err != nil {
		return nil, err
	}
	log.Debug("quiz catalog loaded", zap.Int("stored", n), zap.Int("total", len(catalog.List())))

	svc, err := service.New(service.Deps{
		Catalog:   catalog,
		Sessions:  repos.Sessions,
		Profiles:  repos.Profiles,
		Metrics:   metrics,
		Logger:    log,
		CacheSize: cacheSize,
	})
	if err != nil {
		return nil, err
	}

	return &AppContext{
		DB:         db,
		Repos:      repos,
		Catalog:    catalog,
		Service:    svc,
		Metrics:    metrics,
		Prometheus: prometheus.NewNoOpClient(),
		Logger:     log,
	}, nil
}

// Close flushes metrics and releases the database.
func (a *AppContext) Close(ctx context.Context) error {
	var errs []error
	if a.Metrics != nil {
		errs = append(errs, a.Metrics.Close(ctx))
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
