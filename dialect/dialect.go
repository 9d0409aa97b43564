// Package dialect names the supported database dialects and the
// placeholder style each one uses.
package dialect

import (
	"fmt"
	"strings"
)

// Supported dialects.
const (
	// Postgres is the default dialect. Statements use 1-based $n
	// positional placeholders.
	Postgres = "postgres"
	// MySQL uses ? placeholders.
	MySQL = "mysql"
	// SQLite uses ? placeholders.
	SQLite = "sqlite"
)

// Detect normalizes a driver name to a supported dialect. Wrapped
// driver names such as "sqlite3" or instrumented variants resolve to
// their base dialect; anything else is returned unchanged.
func Detect(name string) string {
	for _, d := range []string{Postgres, MySQL, SQLite} {
		if strings.HasPrefix(name, d) {
			return d
		}
	}
	return name
}

// Placeholder returns the n-th positional placeholder for the dialect,
// 1-based. Postgres renders $n; MySQL and SQLite render ?.
func Placeholder(dialect string, n int) string {
	switch Detect(dialect) {
	case MySQL, SQLite:
		return "?"
	default:
		return fmt.Sprintf("$%d", n)
	}
}
