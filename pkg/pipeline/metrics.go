// pkg/pipeline/metrics.go
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RunMetrics tracks the progress of one validation run
type RunMetrics struct {
	logger         *zap.Logger
	StartTime      time.Time
	EndTime        time.Time
	LoadedTables   map[string]int    // alias -> row count
	FailedTables   map[string]string // alias -> error message
	RulesEvaluated int
	RulesSkipped   int
	ErrorCounts    map[ErrorCategory]int
	Errors         []ErrorRecord
}

// NewRunMetrics creates a new run metrics tracker
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		logger:       logger,
		StartTime:    time.Now(),
		LoadedTables: make(map[string]int),
		FailedTables: make(map[string]string),
		ErrorCounts:  make(map[ErrorCategory]int),
	}
}

// RecordTableLoaded records a successfully loaded table
func (rm *RunMetrics) RecordTableLoaded(alias string, rows int) {
	rm.LoadedTables[alias] = rows
}

// RecordTableFailed records a table that could not be loaded
func (rm *RunMetrics) RecordTableFailed(alias string, err error) {
	rm.FailedTables[alias] = err.Error()
	rm.RecordError(NewErrorRecord(err, ErrorCategoryTableScoped).WithTable(alias))
}

// RecordRuleSkipped records a rule that could not be evaluated
func (rm *RunMetrics) RecordRuleSkipped(table, column, rule string, err error) {
	rm.RulesSkipped++
	rm.RecordError(NewErrorRecord(err, CategorizeRuleError(err)).WithTable(table).WithRule(column, rule))
}

// RecordError records an error occurrence
func (rm *RunMetrics) RecordError(record ErrorRecord) {
	rm.ErrorCounts[record.Category]++
	rm.Errors = append(rm.Errors, record)
}

// Complete marks the run as complete
func (rm *RunMetrics) Complete() {
	rm.EndTime = time.Now()

	rm.logger.Info("Validation run completed",
		zap.Duration("duration", rm.Duration()),
		zap.Int("tables_loaded", len(rm.LoadedTables)),
		zap.Int("tables_failed", len(rm.FailedTables)),
		zap.Int("rules_evaluated", rm.RulesEvaluated),
		zap.Int("rules_skipped", rm.RulesSkipped))
}

// Duration returns the total duration of the run
func (rm *RunMetrics) Duration() time.Duration {
	if rm.EndTime.IsZero() {
		return time.Since(rm.StartTime)
	}
	return rm.EndTime.Sub(rm.StartTime)
}

// Partial reports whether any table or rule was skipped
func (rm *RunMetrics) Partial() bool {
	return len(rm.FailedTables) > 0 || rm.RulesSkipped > 0
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// GenerateMetricsReport creates a detailed metrics report
func (rm *RunMetrics) GenerateMetricsReport() string {
	totalTables := len(rm.LoadedTables) + len(rm.FailedTables)
	totalRules := rm.RulesEvaluated + rm.RulesSkipped

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`
Validation Run Report
=====================
Duration:                %s

Tables Summary
--------------
Total Tables:            %d
Loaded Tables:           %d (%.1f%%)
Failed Tables:           %d (%.1f%%)

Rules Summary
-------------
Total Rules:             %d
Evaluated Rules:         %d (%.1f%%)
Skipped Rules:           %d (%.1f%%)
`,
		formatDuration(rm.Duration()),
		totalTables,
		len(rm.LoadedTables), getPercentage(float64(len(rm.LoadedTables)), float64(totalTables)),
		len(rm.FailedTables), getPercentage(float64(len(rm.FailedTables)), float64(totalTables)),
		totalRules,
		rm.RulesEvaluated, getPercentage(float64(rm.RulesEvaluated), float64(totalRules)),
		rm.RulesSkipped, getPercentage(float64(rm.RulesSkipped), float64(totalRules)),
	))

	if len(rm.LoadedTables) > 0 {
		sb.WriteString("\nTable Details\n-------------\n")
		for _, alias := range sortedKeys(rm.LoadedTables) {
			sb.WriteString(fmt.Sprintf("- %s: %d rows\n", alias, rm.LoadedTables[alias]))
		}
		for _, alias := range sortedKeys(rm.FailedTables) {
			sb.WriteString(fmt.Sprintf("- %s: failed (%s)\n", alias, rm.FailedTables[alias]))
		}
	}

	if len(rm.ErrorCounts) > 0 {
		sb.WriteString("\nError Distribution\n------------------\n")
		totalErrors := 0
		for _, count := range rm.ErrorCounts {
			totalErrors += count
		}

		categories := make([]ErrorCategory, 0, len(rm.ErrorCounts))
		for category := range rm.ErrorCounts {
			categories = append(categories, category)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] > categories[j] })

		for _, category := range categories {
			count := rm.ErrorCounts[category]
			sb.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", category, count, getPercentage(float64(count), float64(totalErrors))))
		}
	}

	return sb.String()
}

// getPercentage safely calculates a percentage, avoiding division by zero
func getPercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
