package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/dq-validation/pkg/model"
)

func TestAgeCoherent(t *testing.T) {
	tests := []struct {
		name      string
		age       interface{}
		birthDate interface{}
		want      bool
	}{
		{name: "exact", age: int64(40), birthDate: "1985-06-01", want: true},
		{name: "one year off", age: int64(40), birthDate: "1986-06-01", want: true},
		{name: "two years off", age: int64(40), birthDate: "1987-06-01", want: false},
		{name: "time value", age: 39.0, birthDate: time.Date(1986, 1, 1, 0, 0, 0, 0, time.UTC), want: true},
		{name: "numeric string age", age: "40", birthDate: "1985-06-01", want: true},
		{name: "missing birth date", age: int64(40), birthDate: nil, want: false},
		{name: "unparsable birth date", age: int64(40), birthDate: "unknown", want: false},
		{name: "missing age", age: nil, birthDate: "1985-06-01", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeCoherent(tt.age, tt.birthDate, 2025))
		})
	}
}

func TestAgeCoherence_UsesRunYear(t *testing.T) {
	ds := model.Datasets{
		"staff": table("staff", []string{"age", "date_naissance"},
			[]interface{}{int64(40), "1986-03-10"},
			[]interface{}{int64(40), "1987-03-10"},
		),
	}
	rule := findRule(consistencyRules(testRunContext()), "staff", "age_date_naissance_coherent")

	out, err := rule.Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 1, Failed: 1}, out)
}

func TestDepartureAfterArrival(t *testing.T) {
	tests := []struct {
		name      string
		arrival   interface{}
		departure interface{}
		want      Verdict
	}{
		{name: "after", arrival: "2023-01-01", departure: "2023-01-05", want: Valid},
		{name: "same day", arrival: "2023-01-01", departure: "2023-01-01", want: Valid},
		{name: "before", arrival: "2023-01-05", departure: "2023-01-01", want: Invalid},
		{name: "still admitted", arrival: "2023-01-05", departure: nil, want: Valid},
		{name: "unparsable departure", arrival: "2023-01-05", departure: "n/a", want: Valid},
		{name: "missing arrival", arrival: nil, departure: "2023-01-05", want: Invalid},
		{name: "unparsable arrival", arrival: "soon", departure: "2023-01-05", want: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := model.Row{"arrival_date": tt.arrival, "departure_date": tt.departure}
			assert.Equal(t, tt.want, departureAfterArrival(row))
		})
	}
}

func TestCapacityCoherent(t *testing.T) {
	tests := []struct {
		name                        string
		admitted, refused, requests interface{}
		want                        Verdict
	}{
		{name: "under", admitted: int64(5), refused: int64(2), requests: int64(10), want: Valid},
		{name: "equal", admitted: int64(8), refused: int64(2), requests: int64(10), want: Valid},
		{name: "over", admitted: int64(9), refused: int64(2), requests: int64(10), want: Invalid},
		{name: "null component", admitted: nil, refused: int64(0), requests: int64(10), want: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := model.Row{
				"patientsadmitted": tt.admitted,
				"patientsrefused":  tt.refused,
				"patientsrequest":  tt.requests,
			}
			assert.Equal(t, tt.want, capacityCoherent(row))
		})
	}
}

func TestReferentialOutcome(t *testing.T) {
	tests := []struct {
		name   string
		child  []interface{}
		parent []interface{}
		want   Outcome
	}{
		{
			name:   "orphan",
			child:  []interface{}{int64(1), int64(2), int64(99)},
			parent: []interface{}{int64(1), int64(2), int64(3)},
			want:   Outcome{Passed: 2, Failed: 1},
		},
		{
			name:   "int and float compare by value",
			child:  []interface{}{1.0, int64(2)},
			parent: []interface{}{int64(1), 2.0},
			want:   Outcome{Passed: 2},
		},
		{
			name:   "string never equals number",
			child:  []interface{}{"1"},
			parent: []interface{}{int64(1)},
			want:   Outcome{Failed: 1},
		},
		{
			name:   "null child fails",
			child:  []interface{}{nil, "S1"},
			parent: []interface{}{"S1", nil},
			want:   Outcome{Passed: 1, Failed: 1},
		},
		{
			name:   "empty parent",
			child:  []interface{}{"S1"},
			parent: nil,
			want:   Outcome{Failed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferentialOutcome(tt.child, tt.parent))
		})
	}
}

func TestForeignKey_ParentNotLoaded(t *testing.T) {
	ds := model.Datasets{"consultations": column("consultations", "staffid", "S1")}
	rule := findRule(consistencyRules(testRunContext()), "consultations", "staffid_fk_valid")

	_, err := rule.Check(ds)
	assert.ErrorIs(t, err, model.ErrTableNotLoaded)
	assert.Equal(t, []string{"consultations", "staff"}, rule.Tables)
}
