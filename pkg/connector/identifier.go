// pkg/connector/identifier.go
package connector

import (
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/David-Botos/dq-validation/pkg/config"
)

// Unquoted Snowflake identifiers resolve case-insensitively (stored upper case)
var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// QuoteQualified quotes every part of a possibly schema-qualified name
func QuoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}

// TableRef renders a table name for use in a query against the given source.
// Postgres parts are always quoted. Snowflake parts stay bare when they are
// plain identifiers, so staff_raw finds STAFF_RAW; anything else is quoted.
func TableRef(sourceType, name string) string {
	if sourceType != config.SourceSnowflake {
		return QuoteQualified(name)
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if plainIdentifier.MatchString(p) {
			parts[i] = p
		} else {
			parts[i] = pq.QuoteIdentifier(p)
		}
	}
	return strings.Join(parts, ".")
}
