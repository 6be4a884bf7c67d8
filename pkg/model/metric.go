// pkg/model/metric.go
package model

// Pillar is one of the six data-quality rule categories.
// The values are the labels persisted in history files and shown on dashboards.
type Pillar string

const (
	PillarCompleteness Pillar = "COMPLÉTUDE"
	PillarAccuracy     Pillar = "EXACTITUDE"
	PillarValidity     Pillar = "VALIDITÉ"
	PillarConsistency  Pillar = "COHÉRENCE"
	PillarUniqueness   Pillar = "UNICITÉ"
	PillarTimeliness   Pillar = "ACTUALITÉ"
)

// Pillars lists every pillar in evaluation order
var Pillars = []Pillar{
	PillarCompleteness,
	PillarAccuracy,
	PillarValidity,
	PillarConsistency,
	PillarUniqueness,
	PillarTimeliness,
}

// String returns the persisted label
func (p Pillar) String() string {
	return string(p)
}

// MetricRecord is the outcome of one rule for one run
type MetricRecord struct {
	TableName         string  // Dataset alias, e.g. "staff"
	ColumnName        string  // Column or comma-joined columns the rule reads
	RunDate           string  // Run timestamp formatted with RunDateLayout
	Pillar            Pillar  // Category of the rule
	RuleName          string  // Catalog name, e.g. "staff_id_not_null"
	ChecksPassed      int64   // Rows (or keys) judged valid
	ChecksFailed      int64   // Rows (or keys) judged invalid
	SuccessRate       float64 // Percentage rounded to two decimals
	ErrorType         string  // Optional error classification, empty when absent
	TotalExpectations int64   // ChecksPassed + ChecksFailed
}

// HasErrorType reports whether an error type was recorded
func (m MetricRecord) HasErrorType() bool {
	return m.ErrorType != ""
}

// MetricsTable is the ordered sequence of records of one or more runs
type MetricsTable []MetricRecord

// Totals returns the summed passed and failed counts
func (t MetricsTable) Totals() (passed, failed int64) {
	for _, m := range t {
		passed += m.ChecksPassed
		failed += m.ChecksFailed
	}
	return passed, failed
}

// Clone returns an independent copy of the table
func (t MetricsTable) Clone() MetricsTable {
	if t == nil {
		return MetricsTable{}
	}
	out := make(MetricsTable, len(t))
	copy(out, t)
	return out
}
