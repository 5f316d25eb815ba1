package store

import (
	"fmt"
	"strings"
	"time"
)

// Dialect covers the SQL differences between the supported drivers.
type Dialect interface {
	// JSONParam is the placeholder expression for a JSON-encoded text argument.
	JSONParam() string
	// TimeArg converts t to the driver's timestamp argument.
	TimeArg(t time.Time) any
}

type sqliteDialect struct{}

func (d sqliteDialect) JSONParam() string       { return "?" }
func (d sqliteDialect) TimeArg(t time.Time) any { return t.UTC().Format(time.RFC3339Nano) }

type postgresDialect struct{}

func (d postgresDialect) JSONParam() string       { return "?::jsonb" }
func (d postgresDialect) TimeArg(t time.Time) any { return t.UTC() }

// parseTime converts a scanned timestamp value to time.Time.
// Handles both SQLite (returns string) and Postgres (returns time.Time).
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return parseTime(string(t))
	case string:
		if t == "" {
			return time.Time{}
		}
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02 15:04:05.999999-07:00",
		} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func Rebind(query string) string {
	n := 0
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
