package rules

import (
	"time"

	"github.com/David-Botos/dq-validation/pkg/model"
)

var testRunTime = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

func testRunContext() *model.RunContext {
	return model.NewRunContext(testRunTime, "results", "reports", "")
}

// column builds a single-column dataset
func column(table, name string, values ...interface{}) *model.Dataset {
	rows := make([]model.Row, len(values))
	for i, v := range values {
		rows[i] = model.Row{name: v}
	}
	return model.NewDataset(table, []string{name}, rows)
}

// table builds a dataset from column names and positional rows
func table(name string, columns []string, rows ...[]interface{}) *model.Dataset {
	data := make([]model.Row, len(rows))
	for i, values := range rows {
		row := make(model.Row, len(columns))
		for j, col := range columns {
			row[col] = values[j]
		}
		data[i] = row
	}
	return model.NewDataset(name, columns, data)
}

func findRule(rules []RuleDef, tableName, ruleName string) RuleDef {
	for _, r := range rules {
		if r.Table == tableName && r.Name == ruleName {
			return r
		}
	}
	panic("rule not found: " + tableName + "." + ruleName)
}
