// pkg/rules/accuracy.go
package rules

import (
	"regexp"

	"github.com/David-Botos/dq-validation/pkg/model"
)

var (
	// French national phone numbers, optionally with single spaces between pairs
	phoneFR = regexp.MustCompile(`^(\+33|0033|0)[1-9](\s?\d{2}){4}$`)
	email   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Five digits without a leading zero
	postalFR = regexp.MustCompile(`^[1-9]\d{4}$`)
	nonDigit = regexp.MustCompile(`\D`)
)

func accuracyRules() []RuleDef {
	var rules []RuleDef
	for _, table := range []string{"staff", "patients"} {
		rules = append(rules,
			format(table, "telephone", "telephone_format_FR", matchText(phoneFR)),
			format(table, "email", "email_format_rfc5322", matchText(email)),
			format(table, "code_postal", "code_postal_5chiffres_sans0", matchPostalCode),
		)
	}
	return append(rules,
		rowRule(model.PillarAccuracy, "staff_schedule", "present", "present_binary_valid", []string{"present"}, func(row model.Row) Verdict {
			n, ok := asNumeric(row["present"])
			return verdict(ok && (n == 0 || n == 1))
		}),
		rowRule(model.PillarAccuracy, "staff_schedule", "week", "week_range_1_52", []string{"week"}, func(row model.Row) Verdict {
			n, ok := asNumber(row["week"])
			return verdict(ok && n >= 1 && n <= 52)
		}),
	)
}

// format checks non-null values only; NULL is a completeness concern
func format(table, column, name string, match func(interface{}) bool) RuleDef {
	return rowRule(model.PillarAccuracy, table, column, name, []string{column}, func(row model.Row) Verdict {
		value := row[column]
		if value == nil {
			return NotApplicable
		}
		return verdict(match(value))
	})
}

// matchText never matches non-text values
func matchText(re *regexp.Regexp) func(interface{}) bool {
	return func(value interface{}) bool {
		s, ok := asString(value)
		return ok && re.MatchString(s)
	}
}

// matchPostalCode strips every non-digit before matching, so "75 001" and 75001 both pass
func matchPostalCode(value interface{}) bool {
	return postalFR.MatchString(nonDigit.ReplaceAllString(stringify(value), ""))
}
