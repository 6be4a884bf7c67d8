// pkg/history/csv.go
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// Columns is the header of the history log, in file order
var Columns = []string{
	"table_name",
	"column_name",
	"run_date",
	"pilier",
	"rule_name",
	"checks_passed",
	"checks_failed",
	"success_rate",
	"error_type",
	"total_expectations",
}

// FileStore persists the history log as a CSV file
type FileStore struct {
	path string
}

// NewFileStore creates a store for the history file inside dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// Path returns the file location
func (s *FileStore) Path() string {
	return s.path
}

// SetAside renames the history file to <path>.corrupt-<stamp> and returns the
// new location. An existing file with that name is never overwritten.
func (s *FileStore) SetAside(stamp string) (string, error) {
	target := s.path + ".corrupt-" + stamp
	for i := 1; ; i++ {
		if _, err := os.Stat(target); err != nil {
			break
		}
		target = fmt.Sprintf("%s.corrupt-%s-%d", s.path, stamp, i)
	}
	if err := os.Rename(s.path, target); err != nil {
		return "", fmt.Errorf("failed to move %s aside: %w", s.path, err)
	}
	return target, nil
}

// Read parses the history file. Columns are matched by header name so files
// with reordered columns still load; a missing column is an error.
func (s *FileStore) Read() (model.MetricsTable, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a history log from r
func ReadCSV(r io.Reader) (model.MetricsTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return model.MetricsTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("history header missing column %q", name)
		}
	}

	table := model.MetricsTable{}
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history line %d: %w", line, err)
		}

		m, err := parseRecord(fields, index)
		if err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		table = append(table, m)
	}
	return table, nil
}

func parseRecord(fields []string, index map[string]int) (model.MetricRecord, error) {
	get := func(name string) string {
		return fields[index[name]]
	}

	passed, err := cast.ToInt64E(get("checks_passed"))
	if err != nil {
		return model.MetricRecord{}, fmt.Errorf("checks_passed: %w", err)
	}
	failed, err := cast.ToInt64E(get("checks_failed"))
	if err != nil {
		return model.MetricRecord{}, fmt.Errorf("checks_failed: %w", err)
	}
	rate, err := cast.ToFloat64E(get("success_rate"))
	if err != nil {
		return model.MetricRecord{}, fmt.Errorf("success_rate: %w", err)
	}
	total, err := cast.ToInt64E(get("total_expectations"))
	if err != nil {
		return model.MetricRecord{}, fmt.Errorf("total_expectations: %w", err)
	}

	return model.MetricRecord{
		TableName:         get("table_name"),
		ColumnName:        get("column_name"),
		RunDate:           get("run_date"),
		Pillar:            model.Pillar(get("pilier")),
		RuleName:          get("rule_name"),
		ChecksPassed:      passed,
		ChecksFailed:      failed,
		SuccessRate:       rate,
		ErrorType:         get("error_type"),
		TotalExpectations: total,
	}, nil
}

// Write replaces the history file with table, creating the directory if needed
func (s *FileStore) Write(table model.MetricsTable) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV encodes table with the history header
func WriteCSV(w io.Writer, table model.MetricsTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write history header: %w", err)
	}

	for _, m := range table {
		record := []string{
			m.TableName,
			m.ColumnName,
			m.RunDate,
			m.Pillar.String(),
			m.RuleName,
			strconv.FormatInt(m.ChecksPassed, 10),
			strconv.FormatInt(m.ChecksFailed, 10),
			FormatRate(m.SuccessRate),
			m.ErrorType,
			strconv.FormatInt(m.TotalExpectations, 10),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write history record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatRate renders a success rate with at least one decimal, e.g. 80.0 or 33.33
func FormatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
