// Package column provides fluent builders for declaring model columns.
//
// A Column binds one model attribute to one database column and carries
// the metadata the schema registry and statement builders consume: the
// database key, the storage type, an optional default, and the primary
// key flag.
//
//	column.UUID("id").
//	    Key("_id").
//	    PrimaryKey().
//	    DefaultFunc(column.NewUUID)
//
//	column.String("name")
//	column.String("email").Size(255)
//
// The Column value itself is the metadata accessor. Per-instance values
// are read and written through an explicit Storage, never through the
// descriptor:
//
//	v := col.Get(instance)
//	col.Set(instance, "foo")
package column

import (
	"fmt"

	"github.com/google/uuid"
)

// Storage is the per-instance value store a Column reads and writes.
// Values are keyed by the declared attribute name and are private to
// one instance; they are never shared across instances.
type Storage interface {
	// StoredValue returns the value stored for the attribute, if any.
	StoredValue(name string) (any, bool)
	// StoreValue stores the value for the attribute.
	StoreValue(name string, v any)
}

// A Column describes one table column bound to one model attribute.
// Columns are declared once, bound to a single schema at build time,
// and immutable afterwards.
type Column struct {
	name       string // attribute name, set at declaration
	key        string // database column name, defaults to the attribute name
	typ        Type
	defaultVal any
	defaultFn  func() any
	primary    bool
	table      string // table of the owning schema, set by Bind
}

// New returns an untyped column for the given attribute name. Untyped
// columns take part in query generation but cannot be rendered as DDL.
func New(name string) *Column {
	return &Column{name: name, key: name}
}

// String returns a text column. Use Size to switch to varchar(n).
func String(name string) *Column { return New(name).Type(TypeText) }

// Int returns an integer column.
func Int(name string) *Column { return New(name).Type(TypeInteger) }

// Int64 returns an int8 column.
func Int64(name string) *Column { return New(name).Type(TypeBigInt) }

// Float returns a float8 column.
func Float(name string) *Column { return New(name).Type(TypeDouble) }

// Numeric returns a numeric column.
func Numeric(name string) *Column { return New(name).Type(TypeNumeric) }

// Bool returns a bool column.
func Bool(name string) *Column { return New(name).Type(TypeBool) }

// Time returns a timestamptz column.
func Time(name string) *Column { return New(name).Type(TypeTimestampTZ) }

// Date returns a date column.
func Date(name string) *Column { return New(name).Type(TypeDate) }

// UUID returns a uuid column.
func UUID(name string) *Column { return New(name).Type(TypeUUID) }

// JSON returns a jsonb column.
func JSON(name string) *Column { return New(name).Type(TypeJSONB) }

// Bytes returns a bytea column.
func Bytes(name string) *Column { return New(name).Type(TypeBytes) }

// Serial returns a serial4 column.
func Serial(name string) *Column { return New(name).Type(TypeSerial) }

// NewUUID is a convenience default generator for uuid columns.
//
//	column.UUID("id").PrimaryKey().DefaultFunc(column.NewUUID)
func NewUUID() any { return uuid.New() }

// Key overrides the database column name. If not set, the key defaults
// to the attribute name.
func (c *Column) Key(key string) *Column {
	c.key = key
	return c
}

// Type sets the storage type of the column.
func (c *Column) Type(t Type) *Column {
	c.typ = t
	return c
}

// Size switches a text column to varchar(n). It has no effect on
// columns of any other type.
func (c *Column) Size(n int) *Column {
	if c.typ == TypeText {
		c.typ = TypeVarChar(n)
	}
	return c
}

// PrimaryKey marks the column as the primary key of its table. At most
// one column per schema may carry the flag.
func (c *Column) PrimaryKey() *Column {
	c.primary = true
	return c
}

// Default sets a literal default value for the column.
func (c *Column) Default(v any) *Column {
	c.defaultVal = v
	return c
}

// DefaultFunc sets a default generator. The function is invoked with no
// arguments exactly once per constructed instance, so generators like
// column.NewUUID produce a distinct value for every instance.
func (c *Column) DefaultFunc(fn func() any) *Column {
	c.defaultFn = fn
	return c
}

// Name returns the declared attribute name.
func (c *Column) Name() string { return c.name }

// ColumnKey returns the database column name.
func (c *Column) ColumnKey() string { return c.key }

// ColumnType returns the storage type. The zero Type means no type was
// declared.
func (c *Column) ColumnType() Type { return c.typ }

// IsPrimaryKey reports whether the column is a primary key.
func (c *Column) IsPrimaryKey() bool { return c.primary }

// HasDefault reports whether the column declares a default.
func (c *Column) HasDefault() bool {
	return c.defaultFn != nil || c.defaultVal != nil
}

// DefaultValue resolves the default for a new instance, invoking a
// generator function if one was set.
func (c *Column) DefaultValue() any {
	if c.defaultFn != nil {
		return c.defaultFn()
	}
	return c.defaultVal
}

// Table returns the table the column is bound to, or the empty string
// if the column has not been bound to a schema yet.
func (c *Column) Table() string { return c.table }

// Bind attaches the column to a table. It is called once by the schema
// builder and is idempotent for the same table; binding a column that
// is already owned by another schema is a configuration error.
func (c *Column) Bind(table string) error {
	if c.table != "" && c.table != table {
		return fmt.Errorf("column %q already bound to table %q", c.key, c.table)
	}
	c.table = table
	return nil
}

// Get returns the value stored for the column on the given instance
// storage, or nil if no value has been stored. Defaults are
// materialized at instance construction, not at read time, so repeated
// reads are stable and side-effect-free.
func (c *Column) Get(s Storage) any {
	v, ok := s.StoredValue(c.name)
	if !ok {
		return nil
	}
	return v
}

// Set stores the value for the column on the given instance storage.
// No coercion and no validation is applied; a value of the wrong type
// surfaces when the database driver rejects the argument.
func (c *Column) Set(s Storage, v any) {
	s.StoreValue(c.name, v)
}

// DDL renders the column as a CREATE TABLE fragment. It fails if the
// column has no declared type.
func (c *Column) DDL() (string, error) {
	if c.typ.Zero() {
		return "", fmt.Errorf("column %q has no type", c.key)
	}
	s := c.key + " " + c.typ.String()
	if c.primary {
		s += " PRIMARY KEY"
	}
	return s, nil
}

func (c *Column) String() string {
	return fmt.Sprintf("Column(%s, key=%s, type=%s, primary_key=%t)", c.name, c.key, c.typ, c.primary)
}
