// pkg/model/dataset.go
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrTableNotLoaded is returned when a rule needs a table that failed to load
	ErrTableNotLoaded = errors.New("table not loaded")
	// ErrMissingColumn is returned when a rule references a column the table does not have
	ErrMissingColumn = errors.New("missing column")
)

// Row is a single record keyed by normalized column name. A nil value is SQL NULL.
type Row map[string]interface{}

// Dataset is one loaded table. It is read-only once the loader returns it.
type Dataset struct {
	Name            string   // Alias used by the rule catalog, e.g. "staff"
	SourceTable     string   // Table the rows were read from, e.g. "staff_raw"
	Columns         []string // Normalized column names in source order
	OriginalColumns []string // Column names as returned by the driver
	Rows            []Row
}

// NewDataset builds a dataset from already-normalized columns and rows
func NewDataset(name string, columns []string, rows []Row) *Dataset {
	return &Dataset{
		Name:            name,
		SourceTable:     name,
		Columns:         columns,
		OriginalColumns: columns,
		Rows:            rows,
	}
}

// Len returns the row count
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset has the given normalized column
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// RequireColumns returns ErrMissingColumn naming the first absent column
func (d *Dataset) RequireColumns(names ...string) error {
	for _, name := range names {
		if !d.HasColumn(name) {
			return fmt.Errorf("%s.%s: %w", d.Name, name, ErrMissingColumn)
		}
	}
	return nil
}

// Column returns every value of one column in row order
func (d *Dataset) Column(name string) ([]interface{}, error) {
	if err := d.RequireColumns(name); err != nil {
		return nil, err
	}

	values := make([]interface{}, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values, nil
}

// Datasets holds every table loaded for one run, keyed by alias
type Datasets map[string]*Dataset

// Get returns the named dataset or ErrTableNotLoaded
func (ds Datasets) Get(name string) (*Dataset, error) {
	d, ok := ds[name]
	if !ok || d == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrTableNotLoaded)
	}
	return d, nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	invalidChars  = regexp.MustCompile(`[^a-z0-9_]`)
)

// NormalizeColumnName maps a display column name to its stable key:
// trim, lowercase, whitespace runs and hyphens to "_", then drop anything outside [a-z0-9_].
func NormalizeColumnName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = whitespaceRun.ReplaceAllString(normalized, "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return invalidChars.ReplaceAllString(normalized, "")
}
