// pkg/rules/values.go
package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// asString returns the value when it is textual. Non-text values (numbers,
// dates) are not strings for format checks and report ok=false.
func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// asNumber coerces numeric values and numeric strings. NULL, booleans-as-text,
// dates and anything unparsable report ok=false and never satisfy a comparison.
func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil, time.Time:
		return 0, false
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, !math.IsNaN(f)
	}

	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// asNumeric accepts only values stored as numbers. Membership checks compare
// by value and type, so the text "1" is not the number 1.
func asNumeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return cast.ToFloat64(v), true
	case float64:
		return v, !math.IsNaN(v)
	default:
		return 0, false
	}
}

// stringify renders a value the way a column cast to text would; NULL becomes "".
func stringify(value interface{}) string {
	if value == nil {
		return ""
	}
	if f, ok := value.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return cast.ToString(value)
}

// DateState says whether a date field was absent, present, or could not be parsed
type DateState int

const (
	DateMissing DateState = iota
	DateUnparsable
	DatePresent
)

// DateValue is a parsed date field
type DateValue struct {
	Time  time.Time
	State DateState
}

// Valid reports whether the field held a parsable date
func (d DateValue) Valid() bool {
	return d.State == DatePresent
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04",
}

// parseDate coerces a column value to a date. NULL and blank strings are
// DateMissing; any other value that matches no supported layout is DateUnparsable.
func parseDate(value interface{}) DateValue {
	switch v := value.(type) {
	case nil:
		return DateValue{State: DateMissing}
	case time.Time:
		return DateValue{Time: v, State: DatePresent}
	case string, []byte:
		s, _ := asString(v)
		s = strings.TrimSpace(s)
		if s == "" {
			return DateValue{State: DateMissing}
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateValue{Time: t, State: DatePresent}
			}
		}
	}
	return DateValue{State: DateUnparsable}
}

// nullKey is the grouping bucket shared by NULL and unparsable key components
const nullKey = "\x00null"

// keyOf canonicalizes a value for set membership and grouping. Numbers compare
// by value regardless of integer/float representation; strings never equal numbers.
func keyOf(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return nullKey
	case string:
		return "s:" + v
	case []byte:
		return "s:" + string(v)
	case bool:
		return "b:" + strconv.FormatBool(v)
	case time.Time:
		return "t:" + v.UTC().Format(time.RFC3339Nano)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "n:" + cast.ToString(v)
	case float32, float64:
		f := cast.ToFloat64(v)
		if math.IsNaN(f) {
			return nullKey
		}
		if f == math.Trunc(f) && math.Abs(f) < 1e18 {
			return "n:" + strconv.FormatInt(int64(f), 10)
		}
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return fmt.Sprintf("o:%v", v)
	}
}

// dateKey groups parsed dates; missing and unparsable dates share one bucket
func dateKey(value interface{}) string {
	d := parseDate(value)
	if !d.Valid() {
		return nullKey
	}
	return keyOf(d.Time)
}
