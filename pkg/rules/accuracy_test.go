package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/dq-validation/pkg/model"
)

func TestPhonePattern(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0612345678", true},
		{"06 12 34 56 78", true},
		{"+33612345678", true},
		{"0033612345678", true},
		{"0012345678", false},
		{"061234567", false},
		{"06-12-34-56-78", false},
		{"06  12 34 56 78", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, phoneFR.MatchString(tt.value))
		})
	}
}

func TestEmailPattern(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"jean.dupont@hopital.fr", true},
		{"a+b_c%d@sub.example.org", true},
		{"no-at-sign.fr", false},
		{"user@host", false},
		{"user@host.c", false},
		{"user name@host.fr", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, email.MatchString(tt.value))
		})
	}
}

func TestMatchPostalCode(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{name: "plain", value: "75001", want: true},
		{name: "spaced", value: "75 001", want: true},
		{name: "integer", value: int64(69002), want: true},
		{name: "float from driver", value: 13008.0, want: true},
		{name: "leading zero", value: "01000", want: false},
		{name: "too short", value: "7500", want: false},
		{name: "too long", value: "750011", want: false},
		{name: "letters only", value: "abcde", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchPostalCode(tt.value))
		})
	}
}

func TestFormat_SkipsNulls(t *testing.T) {
	ds := model.Datasets{
		"staff": column("staff", "telephone", "0612345678", nil, "12345", nil, int64(612345678)),
	}
	rule := findRule(accuracyRules(), "staff", "telephone_format_FR")

	out, err := rule.Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 1, Failed: 2}, out)
}

func TestPostalCode_NullsExcluded(t *testing.T) {
	ds := model.Datasets{
		"patients": column("patients", "code_postal", "75001", nil, "00000", 33000.0),
	}
	rule := findRule(accuracyRules(), "patients", "code_postal_5chiffres_sans0")

	out, err := rule.Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 2, Failed: 1}, out)
}

func TestScheduleRanges(t *testing.T) {
	ds := model.Datasets{
		"staff_schedule": table("staff_schedule", []string{"present", "week"},
			[]interface{}{int64(1), int64(1)},
			[]interface{}{int64(0), int64(52)},
			[]interface{}{int64(2), int64(53)},
			[]interface{}{"1", "0"},
			[]interface{}{nil, nil},
			[]interface{}{"yes", 26.0},
			[]interface{}{1.0, int64(30)},
		),
	}
	rules := accuracyRules()

	present, err := findRule(rules, "staff_schedule", "present_binary_valid").Check(ds)
	require.NoError(t, err)
	// the text "1" is not a binary value
	assert.Equal(t, Outcome{Passed: 3, Failed: 4}, present)

	week, err := findRule(rules, "staff_schedule", "week_range_1_52").Check(ds)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Passed: 4, Failed: 3}, week)
}
