// pkg/history/postgres.go
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/connector"
	"github.com/David-Botos/dq-validation/pkg/model"
)

// historyRow is the database shape of one metric record
type historyRow struct {
	RunID             string         `db:"run_id"`
	TableName         string         `db:"table_name"`
	ColumnName        string         `db:"column_name"`
	RunDate           string         `db:"run_date"`
	Pillar            string         `db:"pilier"`
	RuleName          string         `db:"rule_name"`
	ChecksPassed      int64          `db:"checks_passed"`
	ChecksFailed      int64          `db:"checks_failed"`
	SuccessRate       float64        `db:"success_rate"`
	ErrorType         sql.NullString `db:"error_type"`
	TotalExpectations int64          `db:"total_expectations"`
}

// TableStore appends each run's metrics to a Postgres table
type TableStore struct {
	db     *sqlx.DB
	table  string
	logger *zap.Logger
}

// NewTableStore creates the store and ensures the history table exists
func NewTableStore(ctx context.Context, db *sqlx.DB, table string, logger *zap.Logger) (*TableStore, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("history table name cannot be empty")
	}

	store := &TableStore{
		db:     db,
		table:  connector.QuoteQualified(table),
		logger: logger.Named("history"),
	}
	if err := store.setupTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup history table: %w", err)
	}
	return store, nil
}

func (s *TableStore) setupTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL,
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			run_date TEXT NOT NULL,
			pilier TEXT NOT NULL,
			rule_name TEXT NOT NULL,
			checks_passed BIGINT NOT NULL,
			checks_failed BIGINT NOT NULL,
			success_rate DOUBLE PRECISION NOT NULL,
			error_type TEXT,
			total_expectations BIGINT NOT NULL,
			recorded_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}

	s.logger.Info("Ensured history table exists", zap.String("table", s.table))
	return nil
}

// Append inserts every record of one run in a single transaction
func (s *TableStore) Append(ctx context.Context, runID uuid.UUID, table model.MetricsTable) (err error) {
	if len(table) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.NamedError("cause", err))
			}
		}
	}()

	insertSQL := `
		INSERT INTO ` + s.table + `
		(run_id, table_name, column_name, run_date, pilier, rule_name,
		 checks_passed, checks_failed, success_rate, error_type, total_expectations)
		VALUES (:run_id, :table_name, :column_name, :run_date, :pilier, :rule_name,
		 :checks_passed, :checks_failed, :success_rate, :error_type, :total_expectations)
	`
	for _, m := range table {
		row := historyRow{
			RunID:             runID.String(),
			TableName:         m.TableName,
			ColumnName:        m.ColumnName,
			RunDate:           m.RunDate,
			Pillar:            m.Pillar.String(),
			RuleName:          m.RuleName,
			ChecksPassed:      m.ChecksPassed,
			ChecksFailed:      m.ChecksFailed,
			SuccessRate:       m.SuccessRate,
			ErrorType:         sql.NullString{String: m.ErrorType, Valid: m.HasErrorType()},
			TotalExpectations: m.TotalExpectations,
		}
		if _, err = tx.NamedExecContext(ctx, insertSQL, row); err != nil {
			return fmt.Errorf("failed to insert history record %s.%s: %w", m.TableName, m.RuleName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}

	s.logger.Info("Appended run to history table",
		zap.String("table", s.table),
		zap.String("run_id", runID.String()),
		zap.Int("records", len(table)))
	return nil
}
