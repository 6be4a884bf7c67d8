// pkg/rules/validity.go
package rules

import (
	"github.com/David-Botos/dq-validation/pkg/model"
)

var (
	validRoles    = []string{"doctor", "nurse", "nursing_assistant"}
	validServices = []string{"emergency", "surgery", "general_medicine", "ICU", "cardiology", "neurology", "pediatrics"}
	validGenders  = []string{"Male", "Female", "Other"}
)

func validityRules() []RuleDef {
	return []RuleDef{
		member("staff", "role", "role_in_allowed_values", validRoles),
		member("staff", "service", "service_in_allowed_values", validServices),
		member("staff", "genre", "genre_in_allowed_values", validGenders),
		between("staff", "age", "age_range_18_75", 18, 75),
		member("patients", "genre", "genre_in_allowed_values", validGenders),
		between("patients", "satisfaction", "satisfaction_range_0_100", 0, 100),
		member("patients", "service", "service_in_allowed_values", validServices),
		rowRule(model.PillarValidity, "services_weekly", "availablebeds", "availablebeds_non_negative", []string{"availablebeds"}, func(row model.Row) Verdict {
			n, ok := asNumber(row["availablebeds"])
			return verdict(ok && n >= 0)
		}),
		member("services_weekly", "service", "service_in_allowed_values", validServices),
	}
}

// member is a case-sensitive enumeration check over every row; NULL is invalid
func member(table, column, name string, allowed []string) RuleDef {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return rowRule(model.PillarValidity, table, column, name, []string{column}, func(row model.Row) Verdict {
		s, ok := asString(row[column])
		if !ok {
			return Invalid
		}
		_, found := set[s]
		return verdict(found)
	})
}

// between is an inclusive numeric range check over every row; NULL is invalid
func between(table, column, name string, lo, hi float64) RuleDef {
	return rowRule(model.PillarValidity, table, column, name, []string{column}, func(row model.Row) Verdict {
		n, ok := asNumber(row[column])
		return verdict(ok && n >= lo && n <= hi)
	})
}
