// pkg/report/summary.go
package report

import (
	"github.com/David-Botos/dq-validation/pkg/model"
)

// Band is the qualitative tier of a success rate
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Band thresholds, inclusive
const (
	HighThreshold   = 90.0
	MediumThreshold = 70.0
)

// BandFor classifies a success rate: >= 90 high, >= 70 medium, otherwise low
func BandFor(rate float64) Band {
	switch {
	case rate >= HighThreshold:
		return BandHigh
	case rate >= MediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// PillarSummary aggregates the records of one pillar
type PillarSummary struct {
	Pillar model.Pillar
	Passed int64
	Failed int64
	Rate   float64
	Band   Band
}

// CheckSummary is the detail line of one metric record
type CheckSummary struct {
	Table  string
	Column string
	Pillar model.Pillar
	Rule   string
	Rate   float64
	Band   Band
}

// Summary is the structured view rendered by the HTML and console reports
type Summary struct {
	GlobalRate  float64
	TotalChecks int64
	Passed      int64
	Failed      int64
	Pillars     []PillarSummary // In order of first appearance in the metrics table
	Checks      []CheckSummary  // In metrics table order
}

// GlobalBand classifies the global rate
func (s Summary) GlobalBand() Band {
	return BandFor(s.GlobalRate)
}

// rate is passed/(passed+failed)*100, or 0 when nothing was checked
func rate(passed, failed int64) float64 {
	total := passed + failed
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}

// Summarize builds the summary of one run's metrics
func Summarize(table model.MetricsTable) Summary {
	passed, failed := table.Totals()
	s := Summary{
		GlobalRate:  rate(passed, failed),
		TotalChecks: passed + failed,
		Passed:      passed,
		Failed:      failed,
		Checks:      make([]CheckSummary, 0, len(table)),
	}

	index := map[model.Pillar]int{}
	for _, m := range table {
		i, ok := index[m.Pillar]
		if !ok {
			i = len(s.Pillars)
			index[m.Pillar] = i
			s.Pillars = append(s.Pillars, PillarSummary{Pillar: m.Pillar})
		}
		s.Pillars[i].Passed += m.ChecksPassed
		s.Pillars[i].Failed += m.ChecksFailed

		s.Checks = append(s.Checks, CheckSummary{
			Table:  m.TableName,
			Column: m.ColumnName,
			Pillar: m.Pillar,
			Rule:   m.RuleName,
			Rate:   m.SuccessRate,
			Band:   BandFor(m.SuccessRate),
		})
	}

	for i := range s.Pillars {
		p := &s.Pillars[i]
		p.Rate = rate(p.Passed, p.Failed)
		p.Band = BandFor(p.Rate)
	}
	return s
}
