// pkg/rules/uniqueness.go
package rules

import (
	"strings"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// KeyPart extracts one component of a candidate key from a row
type KeyPart struct {
	Column string
	Key    func(value interface{}) string
}

func rawPart(column string) KeyPart {
	return KeyPart{Column: column, Key: keyOf}
}

func datePart(column string) KeyPart {
	return KeyPart{Column: column, Key: dateKey}
}

func uniquenessRules() []RuleDef {
	return []RuleDef{
		uniqueColumn("staff", "staff_id", "staff_id_unique"),
		uniqueColumn("patients", "patient_id", "patient_id_unique"),
		uniqueKey("staff_schedule", "week_staff_id_combination_unique",
			rawPart("week"), rawPart("staff_id")),
		// Consultation dates are parsed before grouping: every missing or
		// unparsable date lands in one shared bucket.
		uniqueKey("consultations", "patient_consultation_unique",
			rawPart("patientid"), datePart("consultationdate"), rawPart("consultationtime")),
	}
}

func timelinessRules(rc *model.RunContext) []RuleDef {
	epoch := rc.TimelinessEpoch
	return []RuleDef{
		rowRule(model.PillarTimeliness, "patients", "arrival_date", "arrival_date_since_2020", []string{"arrival_date"}, func(row model.Row) Verdict {
			arrival := parseDate(row["arrival_date"])
			return verdict(arrival.Valid() && !arrival.Time.Before(epoch))
		}),
	}
}

// uniqueColumn counts distinct non-null values; NULL keys are never distinct
// and therefore count as failures.
func uniqueColumn(table, column, name string) RuleDef {
	return RuleDef{
		Pillar:  model.PillarUniqueness,
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

			distinct := make(map[string]struct{}, len(values))
			for _, v := range values {
				if v != nil {
					distinct[keyOf(v)] = struct{}{}
				}
			}
			return DistinctOutcome(int64(len(values)), int64(len(distinct))), nil
		},
	}
}

// uniqueKey counts distinct key tuples actually observed. NULL components group
// together rather than being dropped.
func uniqueKey(table, name string, parts ...KeyPart) RuleDef {
	columns := make([]string, len(parts))
	for i, p := range parts {
		columns[i] = p.Column
	}

	return RuleDef{
		Pillar:  model.PillarUniqueness,
		Table:   table,
		Columns: columns,
		Name:    name,
		Tables:  []string{table},
		Check: func(ds model.Datasets) (Outcome, error) {
			d, err := ds.Get(table)
			if err != nil {
				return Outcome{}, err
			}
			if err := d.RequireColumns(columns...); err != nil {
				return Outcome{}, err
			}

			distinct := make(map[string]struct{}, d.Len())
			components := make([]string, len(parts))
			for _, row := range d.Rows {
				for i, p := range parts {
					components[i] = p.Key(row[p.Column])
				}
				distinct[strings.Join(components, "\x1f")] = struct{}{}
			}
			return DistinctOutcome(int64(d.Len()), int64(len(distinct))), nil
		},
	}
}

// DistinctOutcome credits each distinct key once; every other row fails
func DistinctOutcome(total, distinct int64) Outcome {
	return Outcome{Passed: distinct, Failed: total - distinct}
}
