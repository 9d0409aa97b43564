// Package schema turns a set of declared columns into immutable table
// metadata: the resolved table name, the declaration-ordered column
// list, and the primary key reference.
package schema

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/m-housh/simpleorm/schema/column"
)

// Schema is the derived table metadata for one model. It is built once
// at model-definition time and immutable afterwards; declaring or
// mutating columns after the build does not update it.
type Schema struct {
	table   string
	columns []*column.Column
	byName  map[string]*column.Column
	byKey   map[string]*column.Column
	pk      *column.Column
}

// TableFor derives the default table name for a model name: the
// underscored, pluralized form. "User" becomes "users", "OrderItem"
// becomes "order_items".
func TableFor(model string) string {
	return inflect.Pluralize(inflect.Underscore(strings.TrimSpace(model)))
}

// New builds a schema for the given table from the declared columns, in
// declaration order. It binds every column to the table and fails with
// a ConfigError on a duplicate column key, a duplicate attribute name,
// more than one primary key, or a column already owned by another
// schema.
func New(table string, cols ...*column.Column) (*Schema, error) {
	s := &Schema{
		table:   table,
		columns: make([]*column.Column, 0, len(cols)),
		byName:  make(map[string]*column.Column, len(cols)),
		byKey:   make(map[string]*column.Column, len(cols)),
	}
	for _, c := range cols {
		if err := c.Bind(table); err != nil {
			return nil, NewTableConfigError(table, "%s", err)
		}
		if _, ok := s.byName[c.Name()]; ok {
			return nil, NewTableConfigError(table, "duplicate column attribute %q", c.Name())
		}
		if _, ok := s.byKey[c.ColumnKey()]; ok {
			return nil, NewTableConfigError(table, "duplicate column key %q", c.ColumnKey())
		}
		if c.IsPrimaryKey() {
			if s.pk != nil {
				return nil, NewTableConfigError(table, "multiple primary keys: %q and %q", s.pk.ColumnKey(), c.ColumnKey())
			}
			s.pk = c
		}
		s.byName[c.Name()] = c
		s.byKey[c.ColumnKey()] = c
		s.columns = append(s.columns, c)
	}
	return s, nil
}

// Table returns the resolved table name.
func (s *Schema) Table() string { return s.table }

// Columns returns the columns in declaration order. The returned slice
// is a copy; the schema itself never changes.
func (s *Schema) Columns() []*column.Column {
	cols := make([]*column.Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// Keys returns the database column keys in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.columns))
	for i, c := range s.columns {
		keys[i] = c.ColumnKey()
	}
	return keys
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// PrimaryKey returns the primary key column, or nil if none was
// declared.
func (s *Schema) PrimaryKey() *column.Column { return s.pk }

// ColumnByName returns the column declared under the given attribute
// name.
func (s *Schema) ColumnByName(name string) (*column.Column, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// ColumnByKey returns the column with the given database key.
func (s *Schema) ColumnByKey(key string) (*column.Column, bool) {
	c, ok := s.byKey[key]
	return c, ok
}

// Resolve returns the column for either its attribute name or its
// database key. Attribute names win when the two collide across
// different columns.
func (s *Schema) Resolve(name string) (*column.Column, bool) {
	if c, ok := s.byName[name]; ok {
		return c, ok
	}
	c, ok := s.byKey[name]
	return c, ok
}
