// pkg/report/dashboard.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// DashboardFileName is the dashboard dataset written to every CSV output directory
const DashboardFileName = "superset_validation_metrics.csv"

// NoError replaces an empty error type in the dashboard dataset
const NoError = "N/A"

// DashboardColumns is the header of the dashboard dataset, in file order
var DashboardColumns = []string{
	"table",
	"colonne",
	"date_run",
	"pilier",
	"règle",
	"passed",
	"failed",
	"%_succès",
	"erreurs",
	"total_expectations",
}

// DashboardRow is one metric record relabeled for dashboard ingestion
type DashboardRow struct {
	Table             string
	Column            string
	RunDate           string
	Pillar            string
	Rule              string
	Passed            int64
	Failed            int64
	SuccessRate       string // Two decimals and a percent sign, e.g. "80.00%"
	Errors            string // Error type or NoError
	TotalExpectations int64
}

// Dashboard projects a metrics table into dashboard rows, preserving order
func Dashboard(table model.MetricsTable) []DashboardRow {
	rows := make([]DashboardRow, len(table))
	for i, m := range table {
		errorType := m.ErrorType
		if !m.HasErrorType() {
			errorType = NoError
		}
		rows[i] = DashboardRow{
			Table:             m.TableName,
			Column:            m.ColumnName,
			RunDate:           m.RunDate,
			Pillar:            m.Pillar.String(),
			Rule:              m.RuleName,
			Passed:            m.ChecksPassed,
			Failed:            m.ChecksFailed,
			SuccessRate:       FormatPercent(m.SuccessRate),
			Errors:            errorType,
			TotalExpectations: m.TotalExpectations,
		}
	}
	return rows
}

// FormatPercent renders a rate with two decimals and a percent sign
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}

// WriteDashboardCSV encodes rows with the dashboard header
func WriteDashboardCSV(w io.Writer, rows []DashboardRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(DashboardColumns); err != nil {
		return fmt.Errorf("failed to write dashboard header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Table,
			r.Column,
			r.RunDate,
			r.Pillar,
			r.Rule,
			strconv.FormatInt(r.Passed, 10),
			strconv.FormatInt(r.Failed, 10),
			r.SuccessRate,
			r.Errors,
			strconv.FormatInt(r.TotalExpectations, 10),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write dashboard row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteDashboardFile writes the dashboard dataset into dir and returns its path
func WriteDashboardFile(dir string, rows []DashboardRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dashboard directory: %w", err)
	}

	path := filepath.Join(dir, DashboardFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dashboard file: %w", err)
	}
	if err := WriteDashboardCSV(f, rows); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
