// pkg/connector/connector.go

// Package connector opens the databases a validation run talks to: the
// source holding the raw hospital tables (PostgreSQL or Snowflake) and the
// PostgreSQL database of the optional history table. Every connector hands
// out a *sqlx.DB so the loader and history store stay driver-agnostic.
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DatabaseConnector is an open, verified database handle
type DatabaseConnector interface {
	DB() *sqlx.DB
	// Name identifies the source in logs, e.g. "postgres"
	Name() string
	Close() error
}

// PoolSettings bounds a connection pool; zero values leave the driver default
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// Apply configures db with the non-zero settings
func (p PoolSettings) Apply(db *sql.DB) {
	if p.MaxOpen > 0 {
		db.SetMaxOpenConns(p.MaxOpen)
	}
	if p.MaxIdle > 0 {
		db.SetMaxIdleConns(p.MaxIdle)
	}
	if p.MaxLifetime > 0 {
		db.SetConnMaxLifetime(p.MaxLifetime)
	}
	if p.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(p.MaxIdleTime)
	}
}

// PingWithTimeout verifies db answers within timeout
func PingWithTimeout(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ping timed out after %v: %w", timeout, err)
		}
		return err
	}
	return nil
}

// logPoolStats reports the pool state of a source at debug level
func logPoolStats(logger *zap.Logger, source string, db *sql.DB) {
	stats := db.Stats()
	logger.Debug("Connection pool stats",
		zap.String("source", source),
		zap.Int("open", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("max_open", stats.MaxOpenConnections))
}
