package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m-housh/simpleorm/dialect"
)

func TestDetect(t *testing.T) {
	tests := map[string]string{
		"postgres":  dialect.Postgres,
		"postgresx": dialect.Postgres,
		"mysql":     dialect.MySQL,
		"sqlite":    dialect.SQLite,
		"sqlite3":   dialect.SQLite,
		"sqlmock":   "sqlmock",
	}
	for name, want := range tests {
		assert.Equal(t, want, dialect.Detect(name), name)
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", dialect.Placeholder(dialect.Postgres, 1))
	assert.Equal(t, "$12", dialect.Placeholder(dialect.Postgres, 12))
	assert.Equal(t, "?", dialect.Placeholder(dialect.MySQL, 1))
	assert.Equal(t, "?", dialect.Placeholder(dialect.SQLite, 5))
	assert.Equal(t, "?", dialect.Placeholder("sqlite3", 5))

	// Unknown dialects default to the postgres style.
	assert.Equal(t, "$2", dialect.Placeholder("sqlmock", 2))
}
