// pkg/rules/completeness.go
package rules

import (
	"github.com/David-Botos/dq-validation/pkg/model"
)

// TelephoneFillFloor is the minimum fill ratio of telephone columns
const TelephoneFillFloor = 0.7

func completenessRules() []RuleDef {
	return []RuleDef{
		notNull("staff", "staff_id", "staff_id_not_null"),
		fillRate("staff", "telephone", "telephone_70pct_filled", TelephoneFillFloor),
		notNull("patients", "patient_id", "patient_id_not_null"),
		fillRate("patients", "telephone", "telephone_70pct_filled", TelephoneFillFloor),
		notNull("consultations", "consultationdate", "consultationdate_not_null"),
	}
}

func notNull(table, column, name string) RuleDef {
	return rowRule(model.PillarCompleteness, table, column, name, []string{column}, func(row model.Row) Verdict {
		return verdict(row[column] != nil)
	})
}

// fillRate grades a column leniently against a minimum fill ratio: the column
// is credited with max(floor(ratio*total), nonNull) passes, so it never reports
// more than total-floor(ratio*total) failures.
func fillRate(table, column, name string, ratio float64) RuleDef {
	return RuleDef{
		Pillar:  model.PillarCompleteness,
		Table:   table,
		Columns: []string{column},
		Name:    name,
		Tables:  []string{table},
		Check: func(ds model.Datasets) (Outcome, error) {
			d, err := ds.Get(table)
			if err != nil {
				return Outcome{}, err
			}
			values, err := d.Column(column)
			if err != nil {
				return Outcome{}, err
			}
			return FillRateOutcome(int64(len(values)), countNonNull(values), ratio), nil
		},
	}
}

// FillRateOutcome applies the fill-rate floor to raw counts
func FillRateOutcome(total, nonNull int64, ratio float64) Outcome {
	credited := int64(float64(total) * ratio)
	if nonNull > credited {
		credited = nonNull
	}
	return Outcome{Passed: credited, Failed: total - credited}
}

func countNonNull(values []interface{}) int64 {
	var n int64
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}
