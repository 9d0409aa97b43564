// Package statement builds parameterized SQL statements from model
// metadata.
//
// Each builder is a pure function of a schema or an instance value
// source plus optional equality filters, producing a Statement: the SQL
// text and the positional arguments, index-aligned with the generated
// placeholders. Building a statement never touches the connection
// layer, so statements can be inspected, logged or composed before
// execution.
package statement

import (
	"strings"

	"github.com/m-housh/simpleorm/dialect"
	"github.com/m-housh/simpleorm/schema"
)

// A Statement describes one SQL operation. It has no mutable state once
// built; it is a projection of schema metadata and call-time arguments.
type Statement struct {
	text string
	args []any
}

// Text returns the SQL text.
func (s *Statement) Text() string { return s.text }

// Args returns the positional arguments, in placeholder order.
func (s *Statement) Args() []any { return s.args }

// Query returns the SQL text and the positional arguments, ready to be
// passed to a driver.
func (s *Statement) Query() (string, []any) { return s.text, s.args }

func (s *Statement) String() string { return s.text }

// Cond is one equality filter in a WHERE clause. Filters are ANDed;
// only exact-match equality is supported.
type Cond struct {
	Key   string
	Value any
}

// Eq returns an equality filter. Key may be either the declared
// attribute name or the database column key.
func Eq(key string, v any) Cond {
	return Cond{Key: key, Value: v}
}

// Source provides the per-instance column values the insert, update and
// delete builders read. Values are keyed by attribute name, with
// defaults already materialized at instance construction.
type Source interface {
	Schema() *schema.Schema
	Value(name string) any
}

// Builder generates statements for one dialect. The zero value builds
// for Postgres.
type Builder struct {
	dialect string
}

// NewBuilder returns a Builder for the given dialect.
func NewBuilder(d string) *Builder {
	return &Builder{dialect: dialect.Detect(d)}
}

func (b *Builder) postgres() bool {
	return b.dialect == "" || b.dialect == dialect.Postgres
}

// placeholders renders n placeholders starting at index start, 1-based
// and strictly increasing.
func (b *Builder) placeholders(start, n int) []string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = dialect.Placeholder(b.dialect, start+i)
	}
	return ps
}

// Select builds a SELECT over every schema column, in declaration
// order, with the given equality filters ANDed in the order supplied.
// A filter key that resolves to no column is a ConfigError.
func (b *Builder) Select(sch *schema.Schema, conds ...Cond) (*Statement, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.postgres() {
		sb.WriteString("(" + strings.Join(sch.Keys(), ", ") + ")")
	} else {
		sb.WriteString(strings.Join(sch.Keys(), ", "))
	}
	sb.WriteString(" FROM " + sch.Table())

	args := make([]any, 0, len(conds))
	for i, cond := range conds {
		col, ok := sch.Resolve(cond.Key)
		if !ok {
			return nil, schema.NewTableConfigError(sch.Table(), "unknown filter key %q", cond.Key)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(col.ColumnKey() + " = " + dialect.Placeholder(b.dialect, len(args)+1))
		args = append(args, cond.Value)
	}
	return &Statement{text: sb.String(), args: args}, nil
}

// Insert builds an INSERT for the instance, with one argument per
// schema column in declaration order.
func (b *Builder) Insert(src Source) (*Statement, error) {
	sch := src.Schema()
	cols := sch.Columns()
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = src.Value(c.Name())
	}
	text := "INSERT INTO " + sch.Table() +
		" (" + strings.Join(sch.Keys(), ", ") + ")" +
		" VALUES (" + strings.Join(b.placeholders(1, len(cols)), ", ") + ")"
	return &Statement{text: text, args: args}, nil
}

// Update builds an UPDATE of every schema column for the instance,
// keyed on its primary key, which is appended as the final argument.
// A schema without a primary key is a ConfigError: update-by-identity
// is undefined without one.
func (b *Builder) Update(src Source) (*Statement, error) {
	sch := src.Schema()
	pk := sch.PrimaryKey()
	if pk == nil {
		return nil, schema.NewTableConfigError(sch.Table(), "update requires a primary key")
	}
	cols := sch.Columns()
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		args = append(args, src.Value(c.Name()))
	}

	var sb strings.Builder
	sb.WriteString("UPDATE " + sch.Table() + " SET ")
	if b.postgres() {
		sb.WriteString("(" + strings.Join(sch.Keys(), ", ") + ")")
		sb.WriteString(" = (" + strings.Join(b.placeholders(1, len(cols)), ", ") + ")")
	} else {
		// MySQL and SQLite have no multi-column SET syntax.
		for i, key := range sch.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(key + " = " + dialect.Placeholder(b.dialect, i+1))
		}
	}
	sb.WriteString(" WHERE " + sch.Table() + "." + pk.ColumnKey() + " = " + dialect.Placeholder(b.dialect, len(cols)+1))
	args = append(args, src.Value(pk.Name()))
	return &Statement{text: sb.String(), args: args}, nil
}

// Delete builds a DELETE for the instance, keyed on its primary key as
// the sole argument. Fails like Update when the schema has none.
func (b *Builder) Delete(src Source) (*Statement, error) {
	sch := src.Schema()
	pk := sch.PrimaryKey()
	if pk == nil {
		return nil, schema.NewTableConfigError(sch.Table(), "delete requires a primary key")
	}
	text := "DELETE FROM " + sch.Table() +
		" WHERE " + sch.Table() + "." + pk.ColumnKey() + " = " + dialect.Placeholder(b.dialect, 1)
	return &Statement{text: text, args: []any{src.Value(pk.Name())}}, nil
}

// Package-level builders for the default Postgres dialect.

// Select builds a Postgres SELECT. See Builder.Select.
func Select(sch *schema.Schema, conds ...Cond) (*Statement, error) {
	return (&Builder{}).Select(sch, conds...)
}

// Insert builds a Postgres INSERT. See Builder.Insert.
func Insert(src Source) (*Statement, error) {
	return (&Builder{}).Insert(src)
}

// Update builds a Postgres UPDATE. See Builder.Update.
func Update(src Source) (*Statement, error) {
	return (&Builder{}).Update(src)
}

// Delete builds a Postgres DELETE. See Builder.Delete.
func Delete(src Source) (*Statement, error) {
	return (&Builder{}).Delete(src)
}
