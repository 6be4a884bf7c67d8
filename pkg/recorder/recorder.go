// pkg/recorder/recorder.go
package recorder

import (
	"math"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// Recorder is the append-only collector of metric records for one run.
// Construct a new Recorder per run; it cannot be reset.
type Recorder struct {
	runDate string
	records model.MetricsTable
}

// New creates a recorder stamping every record with the run's date
func New(rc *model.RunContext) *Recorder {
	return &Recorder{runDate: rc.RunDate()}
}

// Record appends one metric record. errorType may be empty.
func (r *Recorder) Record(table, column string, pillar model.Pillar, ruleName string, passed, failed int64, errorType string) model.MetricRecord {
	total := passed + failed
	m := model.MetricRecord{
		TableName:         table,
		ColumnName:        column,
		RunDate:           r.runDate,
		Pillar:            pillar,
		RuleName:          ruleName,
		ChecksPassed:      passed,
		ChecksFailed:      failed,
		SuccessRate:       SuccessRate(passed, total),
		ErrorType:         errorType,
		TotalExpectations: total,
	}
	r.records = append(r.records, m)
	return m
}

// Len returns the number of records appended so far
func (r *Recorder) Len() int {
	return len(r.records)
}

// Finalize returns a snapshot of the records. Later Record calls do not affect it.
func (r *Recorder) Finalize() model.MetricsTable {
	return r.records.Clone()
}

// SuccessRate returns passed/total*100 rounded to two decimals, or 0 when total is 0
func SuccessRate(passed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(passed) / float64(total) * 100)
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
