// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/config"
)

// PostgresDriver is the database/sql driver name registered by pgx
const PostgresDriver = "pgx"

// PostgresConnector implements the DatabaseConnector interface for PostgreSQL
type PostgresConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresConnector opens and verifies a PostgreSQL connection
func NewPostgresConnector(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresConnector, error) {
	logger = logger.Named("postgres-connector")
	logger.Info("Connecting to PostgreSQL")

	db, err := sqlx.Open(PostgresDriver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	PoolSettings{
		MaxOpen:     cfg.MaxOpenConns,
		MaxIdle:     cfg.MaxIdleConns,
		MaxLifetime: cfg.ConnMaxLifetime,
		MaxIdleTime: cfg.ConnMaxIdleTime,
	}.Apply(db.DB)

	// Verify connection
	if err := PingWithTimeout(ctx, db.DB, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	logger.Info("Connection established")
	logPoolStats(logger, "postgres", db.DB)
	return &PostgresConnector{db: db, logger: logger}, nil
}

// NewPostgresConnectorFromDB wraps an already opened handle
func NewPostgresConnectorFromDB(db *sql.DB, logger *zap.Logger) *PostgresConnector {
	return &PostgresConnector{
		db:     sqlx.NewDb(db, PostgresDriver),
		logger: logger.Named("postgres-connector"),
	}
}

// DB returns the underlying database connection
func (c *PostgresConnector) DB() *sqlx.DB {
	return c.db
}

// Name returns "postgres"
func (c *PostgresConnector) Name() string {
	return config.SourcePostgres
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	logPoolStats(c.logger, "postgres", c.db.DB)
	return c.db.Close()
}
