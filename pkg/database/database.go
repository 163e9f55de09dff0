// Package database owns the PostgreSQL connection pool and ties its
// availability to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/vantage/pkg/lifecycle"
)

// System manages the connection pool.
type System interface {
	// Connection returns the underlying pool.
	Connection() *sql.DB
	// Ping checks connectivity, returning ErrNotReady on failure.
	Ping(ctx context.Context) error
	// Start registers startup and shutdown hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	reachable   atomic.Bool
}

// New opens a pool for cfg. sql.Open validates the DSN but does not
// connect; the first ping happens during lifecycle startup.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(ctx); err != nil {
		d.reachable.Store(false)
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	d.reachable.Store(true)
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("database", func(ctx context.Context) error {
		if err := d.Ping(ctx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return err
		}
		d.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown("database", func() {
		<-lc.Context().Done()
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}
