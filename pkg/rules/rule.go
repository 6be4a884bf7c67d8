// pkg/rules/rule.go
package rules

import (
	"strings"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// Verdict is the decision of a row-level rule for one row
type Verdict int

const (
	// NotApplicable rows are left out of the rule's denominator
	NotApplicable Verdict = iota
	Valid
	Invalid
)

// Outcome is the pass/fail count a rule produces
type Outcome struct {
	Passed int64
	Failed int64
}

// Total returns Passed + Failed
func (o Outcome) Total() int64 {
	return o.Passed + o.Failed
}

// Check evaluates a rule against the run's datasets
type Check func(ds model.Datasets) (Outcome, error)

// RowPredicate decides one row
type RowPredicate func(row model.Row) Verdict

// RuleDef is one immutable entry of the catalog
type RuleDef struct {
	Pillar  model.Pillar
	Table   string   // Dataset alias the record is attributed to
	Columns []string // Columns the record names
	Name    string   // Rule name persisted in metric records
	Tables  []string // Every dataset the check reads, Table first
	Check   Check
}

// Column returns the recorded column name; composite keys are comma-joined
func (r RuleDef) Column() string {
	return strings.Join(r.Columns, ",")
}

// rowRule builds a rule that applies pred to every row of table.
// required lists the columns that must exist for the rule to run.
func rowRule(pillar model.Pillar, table, column, name string, required []string, pred RowPredicate) RuleDef {
	return RuleDef{
		Pillar:  pillar,
		Table:   table,
		Columns: []string{column},
		Name:    name,
		Tables:  []string{table},
		Check: func(ds model.Datasets) (Outcome, error) {
			d, err := ds.Get(table)
			if err != nil {
				return Outcome{}, err
			}
			if err := d.RequireColumns(required...); err != nil {
				return Outcome{}, err
			}
			return countRows(d, pred), nil
		},
	}
}

// countRows tallies valid and invalid verdicts, skipping NotApplicable rows
func countRows(d *model.Dataset, pred RowPredicate) Outcome {
	var out Outcome
	for _, row := range d.Rows {
		switch pred(row) {
		case Valid:
			out.Passed++
		case Invalid:
			out.Failed++
		}
	}
	return out
}

// verdict converts a boolean decision
func verdict(ok bool) Verdict {
	if ok {
		return Valid
	}
	return Invalid
}
