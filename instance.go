package simpleorm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m-housh/simpleorm/schema"
)

// Instance is one in-memory model row. Schema column values live in a
// per-instance store keyed by attribute name; values supplied at
// construction that match no column land in an extra container and are
// never persisted.
//
// An instance moves through three states: transient (constructed, never
// saved), persisted (saved at least once) and detached (deleted; still
// usable in memory but no longer backed by a row). Saving a detached
// instance re-inserts it with its current identity, so a primary-key
// collision there surfaces only as a driver error.
type Instance struct {
	model     *Model
	values    map[string]any
	extra     map[string]any
	persisted bool
}

// Schema returns the schema of the owning model.
func (in *Instance) Schema() *schema.Schema { return in.model.sch }

// StoredValue returns the stored value for a column attribute. It
// implements column.Storage.
func (in *Instance) StoredValue(name string) (any, bool) {
	v, ok := in.values[name]
	return v, ok
}

// StoreValue stores a value for a column attribute. It implements
// column.Storage.
func (in *Instance) StoreValue(name string, v any) {
	in.values[name] = v
}

// Value returns the value of the column declared under the given
// attribute name, or nil. It implements statement.Source.
func (in *Instance) Value(name string) any {
	return in.values[name]
}

// Get returns the value stored under the given attribute name or
// database column key, falling back to the extra container.
func (in *Instance) Get(name string) (any, bool) {
	if c, ok := in.model.sch.Resolve(name); ok {
		return c.Get(in), true
	}
	v, ok := in.extra[name]
	return v, ok
}

// Set stores a value under the given attribute name or database column
// key. Names that match no schema column go to the extra container.
func (in *Instance) Set(name string, v any) {
	if c, ok := in.model.sch.Resolve(name); ok {
		c.Set(in, v)
		return
	}
	in.extra[name] = v
}

// Extra returns a non-schema attribute supplied at construction.
func (in *Instance) Extra(name string) (any, bool) {
	v, ok := in.extra[name]
	return v, ok
}

// Persisted reports whether the instance is backed by a database row.
func (in *Instance) Persisted() bool { return in.persisted }

func (in *Instance) String() string {
	parts := make([]string, 0, len(in.values)+len(in.extra))
	for _, c := range in.model.sch.Columns() {
		parts = append(parts, fmt.Sprintf("%s=%v", c.Name(), in.values[c.Name()]))
	}
	extras := make([]string, 0, len(in.extra))
	for k, v := range in.extra {
		extras = append(extras, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(extras)
	parts = append(parts, extras...)
	return fmt.Sprintf("%s(%s)", in.model.sch.Table(), strings.Join(parts, ", "))
}
