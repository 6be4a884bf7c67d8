// pkg/pipeline/error.go
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// ErrConnection is returned when the data source cannot be reached. It aborts the run.
var ErrConnection = errors.New("connection failed")

// ErrorCategory classifies failures by how much of the run they affect
type ErrorCategory int

const (
	// Error categories with increasing severity
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryNonFatalIO covers optional reads and sinks, e.g. an unreadable prior history
	ErrorCategoryNonFatalIO
	// ErrorCategoryRuleScoped skips one rule
	ErrorCategoryRuleScoped
	// ErrorCategoryTableScoped skips every rule reading one table
	ErrorCategoryTableScoped
	// ErrorCategoryFatal aborts the run
	ErrorCategoryFatal
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryNonFatalIO:
		return "NonFatalIO"
	case ErrorCategoryRuleScoped:
		return "RuleScoped"
	case ErrorCategoryTableScoped:
		return "TableScoped"
	case ErrorCategoryFatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// CategorizeRuleError determines the category of an error returned by a rule.
// A rule that cannot run because its table failed to load is reported with
// the table; any other rule failure only affects that rule.
func CategorizeRuleError(err error) ErrorCategory {
	switch {
	case err == nil:
		return ErrorCategoryNone
	case errors.Is(err, ErrConnection):
		return ErrorCategoryFatal
	case errors.Is(err, model.ErrTableNotLoaded):
		return ErrorCategoryTableScoped
	default:
		return ErrorCategoryRuleScoped
	}
}

// ErrorRecord represents a single failure during a run
type ErrorRecord struct {
	Category   ErrorCategory
	TableName  string
	ColumnName string
	RuleName   string
	Error      error
	Message    string // Derived from Error but stored for serialization
	Timestamp  time.Time
}

// NewErrorRecord creates a new error record with current timestamp
func NewErrorRecord(err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:  category,
		Error:     err,
		Timestamp: time.Now(),
	}

	if err != nil {
		record.Message = err.Error()
	}

	return record
}

// WithTable adds table information to the error record
func (r ErrorRecord) WithTable(table string) ErrorRecord {
	r.TableName = table
	return r
}

// WithRule adds rule information to the error record
func (r ErrorRecord) WithRule(column, rule string) ErrorRecord {
	r.ColumnName = column
	r.RuleName = rule
	return r
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))

	if r.TableName != "" {
		sb.WriteString(fmt.Sprintf("Table: %s ", r.TableName))
	}

	if r.RuleName != "" {
		sb.WriteString(fmt.Sprintf("Rule: %s ", r.RuleName))
		if r.ColumnName != "" {
			sb.WriteString(fmt.Sprintf("Column: %s ", r.ColumnName))
		}
	}

	if r.Error != nil {
		sb.WriteString(fmt.Sprintf("Error: %s", r.Error.Error()))
	} else if r.Message != "" {
		sb.WriteString(fmt.Sprintf("Error: %s", r.Message))
	}

	return sb.String()
}
