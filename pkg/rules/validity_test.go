package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/dq-validation/pkg/model"
)

func TestMember(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		want   Outcome
	}{
		{name: "all allowed", values: []interface{}{"doctor", "nurse", "nursing_assistant"}, want: Outcome{Passed: 3}},
		{name: "case sensitive", values: []interface{}{"Doctor", "NURSE"}, want: Outcome{Failed: 2}},
		{name: "null is invalid", values: []interface{}{"doctor", nil}, want: Outcome{Passed: 1, Failed: 1}},
		{name: "non string is invalid", values: []interface{}{int64(1)}, want: Outcome{Failed: 1}},
	}

	rule := member("staff", "role", "role_in_allowed_values", validRoles)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := model.Datasets{"staff": column("staff", "role", tt.values...)}
			out, err := rule.Check(ds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestBetween(t *testing.T) {
	ds := model.Datasets{
		"staff": column("staff", "age", int64(18), int64(75), int64(17), 76.0, "40", nil, "old"),
	}

	out, err := between("staff", "age", "age_range_18_75", 18, 75).Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 3, Failed: 4}, out)
}

func TestServiceEnumeration(t *testing.T) {
	ds := model.Datasets{
		"services_weekly": table("services_weekly", []string{"service", "availablebeds"},
			[]interface{}{"ICU", int64(0)},
			[]interface{}{"icu", int64(-1)},
			[]interface{}{"pediatrics", 3.5},
		),
	}
	rules := validityRules()

	services, err := findRule(rules, "services_weekly", "service_in_allowed_values").Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 2, Failed: 1}, services)

	beds, err := findRule(rules, "services_weekly", "availablebeds_non_negative").Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 2, Failed: 1}, beds)
}
