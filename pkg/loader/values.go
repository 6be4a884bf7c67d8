// pkg/loader/values.go
package loader

import (
	"database/sql/driver"
	"strconv"
	"strings"
	"time"
)

// numericTypes are database type names whose values some drivers return as
// text: gosnowflake reports FIXED and REAL, pgx NUMERIC.
var numericTypes = map[string]bool{
	"FIXED":   true,
	"REAL":    true,
	"NUMBER":  true,
	"NUMERIC": true,
	"DECIMAL": true,
}

// IsNumericType reports whether a column's database type name holds numbers
func IsNumericType(dbType string) bool {
	return numericTypes[strings.ToUpper(dbType)]
}

// ConvertColumnValue is ConvertDriverValue for a column of known kind. Text
// read from a numeric column becomes int64 when integral, float64 otherwise.
func ConvertColumnValue(value interface{}, numeric bool) interface{} {
	v := ConvertDriverValue(value)
	s, ok := v.(string)
	if !ok || !numeric {
		return v
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return v
}

// ConvertDriverValue maps a raw database/sql value to the representation the
// rules expect: nil for NULL, string for text and byte payloads, numbers,
// booleans and time.Time passed through unchanged.
func ConvertDriverValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case time.Time:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool, string:
		return v
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return nil
		}
		return ConvertDriverValue(inner)
	default:
		return v
	}
}
