// pkg/rules/consistency.go
package rules

import (
	"math"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// AgeTolerance absorbs birthdays not yet reached in the reference year
const AgeTolerance = 1

func consistencyRules(rc *model.RunContext) []RuleDef {
	year := rc.CurrentYear()
	return []RuleDef{
		ageCoherence("staff", year),
		rowRule(model.PillarConsistency, "patients", "departure_date", "departure_after_arrival",
			[]string{"arrival_date", "departure_date"}, departureAfterArrival),
		ageCoherence("patients", year),
		rowRule(model.PillarConsistency, "services_weekly", "patientsrequest", "admitted_refused_le_requested",
			[]string{"patientsadmitted", "patientsrefused", "patientsrequest"}, capacityCoherent),
		foreignKey("consultations", "patientid", "patients", "patient_id", "patientid_fk_valid"),
		foreignKey("consultations", "staffid", "staff", "staff_id", "staffid_fk_valid"),
	}
}

// ageCoherence compares the declared age to the age implied by date_naissance.
// A missing or unparsable birth date, or a non-numeric age, is invalid.
func ageCoherence(table string, currentYear int) RuleDef {
	return rowRule(model.PillarConsistency, table, "age", "age_date_naissance_coherent",
		[]string{"age", "date_naissance"}, func(row model.Row) Verdict {
			return verdict(AgeCoherent(row["age"], row["date_naissance"], currentYear))
		})
}

// AgeCoherent reports whether |declared - (currentYear - birthYear)| <= AgeTolerance
func AgeCoherent(declared, birthDate interface{}, currentYear int) bool {
	age, ok := asNumber(declared)
	if !ok {
		return false
	}
	born := parseDate(birthDate)
	if !born.Valid() {
		return false
	}
	computed := float64(currentYear - born.Time.Year())
	return math.Abs(age-computed) <= AgeTolerance
}

// departureAfterArrival treats a missing or unparsable departure as a patient
// still admitted, which is valid. Otherwise arrival must parse and precede or
// equal departure.
func departureAfterArrival(row model.Row) Verdict {
	departure := parseDate(row["departure_date"])
	if !departure.Valid() {
		return Valid
	}
	arrival := parseDate(row["arrival_date"])
	return verdict(arrival.Valid() && !departure.Time.Before(arrival.Time))
}

func capacityCoherent(row model.Row) Verdict {
	admitted, ok1 := asNumber(row["patientsadmitted"])
	refused, ok2 := asNumber(row["patientsrefused"])
	requested, ok3 := asNumber(row["patientsrequest"])
	return verdict(ok1 && ok2 && ok3 && admitted+refused <= requested)
}

// foreignKey checks every child row's value belongs to the parent key set.
// NULL child values never match.
func foreignKey(childTable, childColumn, parentTable, parentColumn, name string) RuleDef {
	return RuleDef{
		Pillar:  model.PillarConsistency,
		Table:   childTable,
		Columns: []string{childColumn},
		Name:    name,
		Tables:  []string{childTable, parentTable},
		Check: func(ds model.Datasets) (Outcome, error) {
			child, err := ds.Get(childTable)
			if err != nil {
				return Outcome{}, err
			}
			parent, err := ds.Get(parentTable)
			if err != nil {
				return Outcome{}, err
			}
			childValues, err := child.Column(childColumn)
			if err != nil {
				return Outcome{}, err
			}
			parentValues, err := parent.Column(parentColumn)
			if err != nil {
				return Outcome{}, err
			}
			return ReferentialOutcome(childValues, parentValues), nil
		},
	}
}

// ReferentialOutcome counts child values contained in the parent value set
func ReferentialOutcome(childValues, parentValues []interface{}) Outcome {
	keys := make(map[string]struct{}, len(parentValues))
	for _, v := range parentValues {
		if v != nil {
			keys[keyOf(v)] = struct{}{}
		}
	}

	var out Outcome
	for _, v := range childValues {
		if v == nil {
			out.Failed++
			continue
		}
		if _, ok := keys[keyOf(v)]; ok {
			out.Passed++
		} else {
			out.Failed++
		}
	}
	return out
}
