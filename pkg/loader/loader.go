// pkg/loader/loader.go
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/config"
	"github.com/David-Botos/dq-validation/pkg/connector"
	"github.com/David-Botos/dq-validation/pkg/model"
)

// Querier is the subset of *sqlx.DB the loader needs
type Querier interface {
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
}

// Loader reads source tables into in-memory datasets
type Loader struct {
	db      Querier
	logger  *zap.Logger
	timeout time.Duration
	source  string
}

// NewLoader creates a loader over the given handle. sourceType selects how
// table names are rendered in queries (see connector.TableRef).
func NewLoader(db Querier, sourceType string, timeout time.Duration, logger *zap.Logger) *Loader {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Loader{
		db:      db,
		logger:  logger.Named("loader"),
		timeout: timeout,
		source:  sourceType,
	}
}

// LoadTable reads every row of one table and normalizes its column names
func (l *Loader) LoadTable(ctx context.Context, mapping config.TableMapping) (*model.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	query := "SELECT * FROM " + connector.TableRef(l.source, mapping.Table)
	rows, err := l.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", mapping.Table, err)
	}
	defer rows.Close()

	original, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", mapping.Table, err)
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types of %s: %w", mapping.Table, err)
	}
	numeric := make([]bool, len(types))
	for i, ct := range types {
		numeric[i] = IsNumericType(ct.DatabaseTypeName())
	}

	columns := make([]string, len(original))
	seen := make(map[string]bool, len(original))
	for i, name := range original {
		columns[i] = model.NormalizeColumnName(name)
		if seen[columns[i]] {
			l.logger.Warn("Normalized column name collision, last column wins",
				zap.String("table", mapping.Table),
				zap.String("column", columns[i]))
		}
		seen[columns[i]] = true
	}

	var data []model.Row
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row %d of %s: %w", len(data)+1, mapping.Table, err)
		}

		row := make(model.Row, len(columns))
		for i, col := range columns {
			row[col] = ConvertColumnValue(values[i], numeric[i])
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", mapping.Table, err)
	}

	l.logger.Info("Table loaded",
		zap.String("alias", mapping.Alias),
		zap.String("table", mapping.Table),
		zap.Int("rows", len(data)),
		zap.Strings("original_columns", original),
		zap.Strings("normalized_columns", columns))

	return &model.Dataset{
		Name:            mapping.Alias,
		SourceTable:     mapping.Table,
		Columns:         columns,
		OriginalColumns: original,
		Rows:            data,
	}, nil
}

// LoadAll loads every mapped table. A table that fails to load is reported in
// the returned failures map and left out of the datasets; the others still load.
func (l *Loader) LoadAll(ctx context.Context, mappings []config.TableMapping) (model.Datasets, map[string]error) {
	l.logger.Info("Loading datasets", zap.Int("tables", len(mappings)))

	datasets := make(model.Datasets, len(mappings))
	failures := make(map[string]error)
	for _, mapping := range mappings {
		ds, err := l.LoadTable(ctx, mapping)
		if err != nil {
			l.logger.Warn("Table could not be loaded, its checks will be skipped",
				zap.String("alias", mapping.Alias),
				zap.String("table", mapping.Table),
				zap.Error(err))
			failures[mapping.Alias] = err
			continue
		}
		datasets[mapping.Alias] = ds
	}
	return datasets, failures
}
