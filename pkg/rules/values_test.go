package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOK bool
	}{
		{name: "int64", value: int64(42), want: 42, wantOK: true},
		{name: "float", value: 1.5, want: 1.5, wantOK: true},
		{name: "numeric string", value: " 12.5 ", want: 12.5, wantOK: true},
		{name: "bool", value: true, want: 1, wantOK: true},
		{name: "nil", value: nil, wantOK: false},
		{name: "text", value: "abc", wantOK: false},
		{name: "blank", value: "  ", wantOK: false},
		{name: "time", value: time.Now(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asNumber(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestAsNumeric(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOK bool
	}{
		{name: "int64", value: int64(1), want: 1, wantOK: true},
		{name: "int32", value: int32(0), want: 0, wantOK: true},
		{name: "float", value: 1.0, want: 1, wantOK: true},
		{name: "numeric string", value: "1", wantOK: false},
		{name: "bool", value: true, wantOK: false},
		{name: "nil", value: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asNumeric(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantState DateState
		wantDate  string
	}{
		{name: "nil", value: nil, wantState: DateMissing},
		{name: "blank", value: " ", wantState: DateMissing},
		{name: "iso date", value: "1985-04-02", wantState: DatePresent, wantDate: "1985-04-02"},
		{name: "iso datetime", value: "2023-01-15 08:30:00", wantState: DatePresent, wantDate: "2023-01-15"},
		{name: "rfc3339", value: "2023-01-15T08:30:00Z", wantState: DatePresent, wantDate: "2023-01-15"},
		{name: "slashes", value: "2021/12/31", wantState: DatePresent, wantDate: "2021-12-31"},
		{name: "month first", value: "03/04/2022", wantState: DatePresent, wantDate: "2022-03-04"},
		{name: "time value", value: time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), wantState: DatePresent, wantDate: "2020-02-29"},
		{name: "garbage", value: "not a date", wantState: DateUnparsable},
		{name: "impossible", value: "2021-02-30", wantState: DateUnparsable},
		{name: "number", value: int64(20210101), wantState: DateUnparsable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.value)
			assert.Equal(t, tt.wantState, got.State)
			if tt.wantDate != "" {
				assert.Equal(t, tt.wantDate, got.Time.Format("2006-01-02"))
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, keyOf(int64(1)), keyOf(1.0))
	assert.Equal(t, keyOf(int32(7)), keyOf(int64(7)))
	assert.Equal(t, keyOf("a"), keyOf([]byte("a")))
	assert.NotEqual(t, keyOf("1"), keyOf(int64(1)))
	assert.NotEqual(t, keyOf(1.5), keyOf(int64(1)))
	assert.Equal(t, nullKey, keyOf(nil))
}

func TestDateKey_UnparsableShareBucket(t *testing.T) {
	assert.Equal(t, dateKey("garbage"), dateKey("also garbage"))
	assert.Equal(t, dateKey(nil), dateKey("garbage"))
	assert.Equal(t, dateKey("2024-01-01"), dateKey(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.NotEqual(t, dateKey("2024-01-01"), dateKey("2024-01-02"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "75001", stringify(75001.0))
	assert.Equal(t, "75001", stringify(int64(75001)))
	assert.Equal(t, "75 001", stringify("75 001"))
}
