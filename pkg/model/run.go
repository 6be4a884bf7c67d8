// pkg/model/run.go
package model

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunDateLayout is the layout of MetricRecord.RunDate
const RunDateLayout = "2006-01-02 15:04:05"

// DefaultTimelinessEpoch is the earliest acceptable patient arrival date
var DefaultTimelinessEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// RunContext carries everything a run depends on that would otherwise be process-global.
// It is created once per run and passed to every component.
type RunContext struct {
	RunID           uuid.UUID
	Timestamp       time.Time
	ResultsDir      string
	ReportsDir      string
	DataDir         string // Mirror directory for CSV outputs, empty disables it
	TimelinessEpoch time.Time
}

// NewRunContext creates a run context stamped at the given time
func NewRunContext(now time.Time, resultsDir, reportsDir, dataDir string) *RunContext {
	return &RunContext{
		RunID:           uuid.New(),
		Timestamp:       now,
		ResultsDir:      resultsDir,
		ReportsDir:      reportsDir,
		DataDir:         dataDir,
		TimelinessEpoch: DefaultTimelinessEpoch,
	}
}

// RunDate returns the run timestamp as persisted in metric records
func (rc *RunContext) RunDate() string {
	return rc.Timestamp.Format(RunDateLayout)
}

// CurrentYear is the reference year for age computations
func (rc *RunContext) CurrentYear() int {
	return rc.Timestamp.Year()
}

// DocsDir is where the HTML report is written
func (rc *RunContext) DocsDir() string {
	return filepath.Join(rc.ReportsDir, "gx_data_docs")
}

// CSVDirs returns every directory that receives the CSV outputs
func (rc *RunContext) CSVDirs() []string {
	dirs := []string{rc.ResultsDir}
	if rc.DataDir != "" && rc.DataDir != rc.ResultsDir {
		dirs = append(dirs, rc.DataDir)
	}
	return dirs
}
