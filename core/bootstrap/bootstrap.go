// Package bootstrap initializes shared infrastructure: logging, the SQL
// database with its migrations, the session key-value store and tracing.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/potzbot/core/config"
	coredatabase "github.com/m3rciful/potzbot/core/database"
	"github.com/m3rciful/potzbot/core/kvstore"
	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/core/telemetry"
)

// StoreMemory is the StoreKind of the in-process session store.
const StoreMemory = "memory"

// Options control the bootstrap pipeline. Nil hooks take the defaults.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit    func(*coreconfig.Config) error
	Connect       func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate       func(context.Context, coredatabase.Config) error
	TelemetryInit func(context.Context, coreconfig.TelemetryConfig) (telemetry.ShutdownFunc, error)
}

// Result exposes the initialized infrastructure. DB is nil when no SQL
// driver is configured and Store is then in memory. StoreKind names the
// backend: the SQL driver or "memory".
type Result struct {
	DB        *sqlx.DB
	Store     kvstore.Store
	StoreKind string

	shutdownTelemetry telemetry.ShutdownFunc
}

// Close flushes traces and closes the database.
func (r *Result) Close(ctx context.Context) error {
	var firstErr error
	if r.shutdownTelemetry != nil {
		if err := r.shutdownTelemetry(ctx); err != nil {
			firstErr = fmt.Errorf("bootstrap: telemetry shutdown: %w", err)
		}
	}
	if r.DB != nil {
		if err := r.DB.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("bootstrap: close database: %w", err)
		}
	}
	return firstErr
}

// Run initializes the logger, then the store (connecting and migrating when
// a database is configured), then tracing.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{}
	if opts.Database.Enabled() {
		start := time.Now()
		connect := opts.Connect
		if connect == nil {
			connect = coredatabase.Connect
		}
		db, err := connect(ctx, opts.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}

		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(ctx, opts.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		res.DB = db
		res.Store = kvstore.NewSQLStore(db)
		res.StoreKind = opts.Database.Driver
		logger.Info(ctx, "app", "store.ready",
			slog.String("store", res.StoreKind),
			slog.Duration("took", logger.Took(start)),
		)
	} else {
		res.Store = kvstore.NewMemoryStore()
		res.StoreKind = StoreMemory
		logger.Warn(ctx, "app", "store.ready",
			slog.String("store", res.StoreKind),
			slog.String("note", "sessions are lost on restart"),
		)
	}

	telemetryInit := opts.TelemetryInit
	if telemetryInit == nil {
		telemetryInit = telemetry.Setup
	}
	shutdown, err := telemetryInit(ctx, opts.Config.Telemetry)
	if err != nil {
		_ = res.Close(ctx)
		return nil, fmt.Errorf("bootstrap: telemetry init failed: %w", err)
	}
	res.shutdownTelemetry = shutdown
	return res, nil
}
