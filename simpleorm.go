// Package simpleorm maps declarative model definitions onto
// parameterized SQL statements and the connections used to execute
// them.
//
// A model is defined once from a set of column declarations and a
// connection manager:
//
//	users, err := simpleorm.Define(simpleorm.Config{
//	    Name:    "User",
//	    Manager: mgr,
//	},
//	    column.UUID("id").Key("_id").PrimaryKey().DefaultFunc(column.NewUUID),
//	    column.String("name"),
//	    column.String("email"),
//	)
//
// The returned handle carries the derived schema (table name, ordered
// columns, primary key) and exposes the database operations:
//
//	u := users.New(simpleorm.Values{"name": "foo", "email": "foo@example.com"})
//	if err := users.Save(ctx, u); err != nil { ... }
//
//	recs, err := users.Records(ctx, statement.Eq("name", "foo"))
//	one, err := users.OneInstance(ctx, statement.Eq("_id", id))
//	err = users.Delete(ctx, u)
//
// Every database operation runs inside a transaction scope on a
// connection acquired from the bound manager and released on all exit
// paths. Statement generation itself is synchronous and pure; see the
// statement package.
package simpleorm

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/m-housh/simpleorm/conn"
	"github.com/m-housh/simpleorm/schema"
	"github.com/m-housh/simpleorm/schema/column"
	"github.com/m-housh/simpleorm/statement"
)

// Values supplies attribute values at instance construction. Keys may
// be attribute names or database column keys; keys that match no
// schema column become non-persisted extra attributes.
type Values map[string]any

// Config declares a model.
type Config struct {
	// Name is the model name the table name derives from when Table
	// is empty ("OrderItem" -> "order_items").
	Name string
	// Table overrides the derived table name.
	Table string
	// Manager executes the model's statements. Required.
	Manager conn.Manager
	// ReturnRecords makes Get and GetOne return raw records instead of
	// mapped instances by default. Either way, a per-call override is
	// available through WithRecords.
	ReturnRecords bool
	// Observer, when set, records statistics for every executed
	// statement.
	Observer *conn.Observer
	// Cache, when set, caches select results per table. Writes through
	// the model invalidate the table's entries.
	Cache Cache
	// CacheTTL bounds the lifetime of cached results. Zero means no
	// expiry.
	CacheTTL time.Duration
}

// Model is the handle returned by Define: schema plus statement
// builders plus connection manager. A Model is immutable and safe for
// concurrent use; no serialization is imposed across concurrent
// operations, so concurrent saves of the same logical row can race.
type Model struct {
	sch           *schema.Schema
	mgr           conn.Manager
	builder       *statement.Builder
	returnRecords bool
	obs           *conn.Observer
	cache         Cache
	cacheTTL      time.Duration
}

// Define registers a model: it builds the schema from the declared
// columns (in declaration order), resolves the table name and binds the
// connection manager. Schema violations and a missing manager are
// ConfigErrors.
func Define(cfg Config, cols ...*column.Column) (*Model, error) {
	if cfg.Manager == nil {
		return nil, schema.NewConfigError("model %q has no connection manager", cfg.Name)
	}
	table := cfg.Table
	if table == "" {
		if cfg.Name == "" {
			return nil, schema.NewConfigError("model needs a Name or a Table")
		}
		table = schema.TableFor(cfg.Name)
	}
	sch, err := schema.New(table, cols...)
	if err != nil {
		return nil, err
	}
	return &Model{
		sch:           sch,
		mgr:           cfg.Manager,
		builder:       statement.NewBuilder(cfg.Manager.Dialect()),
		returnRecords: cfg.ReturnRecords,
		obs:           cfg.Observer,
		cache:         cfg.Cache,
		cacheTTL:      cfg.CacheTTL,
	}, nil
}

// Schema returns the model's schema.
func (m *Model) Schema() *schema.Schema { return m.sch }

// Manager returns the bound connection manager.
func (m *Model) Manager() conn.Manager { return m.mgr }

// WithRecords returns a handle with the record-vs-instance default
// overridden for Get and GetOne. The underlying model is shared.
func (m *Model) WithRecords(records bool) *Model {
	cp := *m
	cp.returnRecords = records
	return &cp
}

// New constructs a transient instance. Schema columns missing from
// vals are populated from their defaults, with generator functions
// invoked exactly once per instance; unknown keys are kept as extra
// attributes.
func (m *Model) New(vals Values) *Instance {
	in := &Instance{
		model:  m,
		values: make(map[string]any, m.sch.Len()),
		extra:  make(map[string]any),
	}
	for k, v := range vals {
		in.Set(k, v)
	}
	for _, c := range m.sch.Columns() {
		if _, ok := in.values[c.Name()]; !ok {
			c.Set(in, c.DefaultValue())
		}
	}
	return in
}

// Save inserts a transient or detached instance and updates a
// persisted one, inside a transaction scope. There is no concurrency
// check: an update against a row that no longer exists affects zero
// rows without error.
func (m *Model) Save(ctx context.Context, in *Instance) error {
	var (
		st  *statement.Statement
		err error
	)
	if in.persisted {
		st, err = m.builder.Update(in)
	} else {
		st, err = m.builder.Insert(in)
	}
	if err != nil {
		return err
	}
	if _, err := m.exec(ctx, st.Text(), st.Args()); err != nil {
		return fmt.Errorf("simpleorm: save %s: %w", m.sch.Table(), err)
	}
	in.persisted = true
	m.invalidate(ctx)
	return nil
}

// Delete removes the instance's row, keyed on its current primary-key
// value. The instance detaches but stays usable in memory.
func (m *Model) Delete(ctx context.Context, in *Instance) error {
	st, err := m.builder.Delete(in)
	if err != nil {
		return err
	}
	if _, err := m.exec(ctx, st.Text(), st.Args()); err != nil {
		return fmt.Errorf("simpleorm: delete from %s: %w", m.sch.Table(), err)
	}
	in.persisted = false
	m.invalidate(ctx)
	return nil
}

// Exec runs an arbitrary statement through the bound manager's
// transaction scope.
func (m *Model) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := m.exec(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("simpleorm: exec on %s: %w", m.sch.Table(), err)
	}
	m.invalidate(ctx)
	return res, nil
}

// Records fetches raw records matching the equality filters.
func (m *Model) Records(ctx context.Context, conds ...statement.Cond) ([]Record, error) {
	st, err := m.builder.Select(m.sch, conds...)
	if err != nil {
		return nil, err
	}
	key := CacheKey{Table: m.sch.Table(), Operation: "select", Statement: st.Text(), Args: st.Args()}.String()
	if recs, ok := m.cached(ctx, key); ok {
		return recs, nil
	}
	recs, err := m.fetch(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("simpleorm: get from %s: %w", m.sch.Table(), err)
	}
	m.store(ctx, key, recs)
	return recs, nil
}

// OneRecord fetches the first record matching the equality filters, or
// a zero record with found=false when there is none.
func (m *Model) OneRecord(ctx context.Context, conds ...statement.Cond) (Record, bool, error) {
	recs, err := m.Records(ctx, conds...)
	if err != nil || len(recs) == 0 {
		return Record{}, false, err
	}
	return recs[0], true, nil
}

// AllInstances fetches matching rows mapped into persisted instances.
func (m *Model) AllInstances(ctx context.Context, conds ...statement.Cond) ([]*Instance, error) {
	recs, err := m.Records(ctx, conds...)
	if err != nil {
		return nil, err
	}
	ins := make([]*Instance, len(recs))
	for i, rec := range recs {
		if ins[i], err = m.FromRecord(rec); err != nil {
			return nil, err
		}
	}
	return ins, nil
}

// OneInstance fetches the first matching row mapped into a persisted
// instance, or nil when there is none.
func (m *Model) OneInstance(ctx context.Context, conds ...statement.Cond) (*Instance, error) {
	rec, ok, err := m.OneRecord(ctx, conds...)
	if err != nil || !ok {
		return nil, err
	}
	return m.FromRecord(rec)
}

// Get fetches matching rows, returning []Record or []*Instance per the
// model's ReturnRecords default (see WithRecords).
func (m *Model) Get(ctx context.Context, conds ...statement.Cond) ([]any, error) {
	if m.returnRecords {
		recs, err := m.Records(ctx, conds...)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(recs))
		for i, r := range recs {
			out[i] = r
		}
		return out, nil
	}
	ins, err := m.AllInstances(ctx, conds...)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(ins))
	for i, in := range ins {
		out[i] = in
	}
	return out, nil
}

// GetOne fetches the first matching row as a Record or *Instance per
// the model's ReturnRecords default, or nil when there is none.
func (m *Model) GetOne(ctx context.Context, conds ...statement.Cond) (any, error) {
	if m.returnRecords {
		rec, ok, err := m.OneRecord(ctx, conds...)
		if err != nil || !ok {
			return nil, err
		}
		return rec, nil
	}
	in, err := m.OneInstance(ctx, conds...)
	if err != nil || in == nil {
		return nil, err
	}
	return in, nil
}

// FromRecord maps a record into a persisted instance. Every schema
// column must be present in the record; a missing column is a
// MappingError. Record columns outside the schema pass through as
// extra attributes.
func (m *Model) FromRecord(rec Record) (*Instance, error) {
	in := &Instance{
		model:  m,
		values: make(map[string]any, m.sch.Len()),
		extra:  make(map[string]any),
	}
	for _, c := range m.sch.Columns() {
		v, ok := rec.Get(c.ColumnKey())
		if !ok {
			return nil, schema.NewMappingError(m.sch.Table(), c.ColumnKey())
		}
		c.Set(in, v)
	}
	for i, key := range rec.Columns {
		if _, ok := m.sch.ColumnByKey(key); !ok {
			in.extra[key] = rec.Values[i]
		}
	}
	in.persisted = true
	return in, nil
}

// exec runs one statement inside a transaction scope on an acquired
// connection.
func (m *Model) exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	var res sql.Result
	err := conn.WithTx(ctx, m.mgr, func(tx *sql.Tx) error {
		start := time.Now()
		r, err := tx.ExecContext(ctx, query, args...)
		m.obs.Record(ctx, query, args, start, err, false)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	return res, err
}

// fetch runs one select inside a transaction scope and drains the rows.
func (m *Model) fetch(ctx context.Context, st *statement.Statement) ([]Record, error) {
	var recs []Record
	err := conn.WithTx(ctx, m.mgr, func(tx *sql.Tx) error {
		start := time.Now()
		rows, err := tx.QueryContext(ctx, st.Text(), st.Args()...)
		m.obs.Record(ctx, st.Text(), st.Args(), start, err, true)
		if err != nil {
			return err
		}
		defer rows.Close()
		recs, err = scanRecords(rows)
		return err
	})
	return recs, err
}

// cached looks a select result up in the cache. Cache failures fall
// through to the database.
func (m *Model) cached(ctx context.Context, key string) ([]Record, bool) {
	if m.cache == nil {
		return nil, false
	}
	data, err := m.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}
	recs, err := decodeRecords(data)
	if err != nil {
		return nil, false
	}
	return recs, true
}

// store writes a select result to the cache. Failures are ignored.
func (m *Model) store(ctx context.Context, key string, recs []Record) {
	if m.cache == nil {
		return
	}
	data, err := encodeRecords(recs)
	if err != nil {
		return
	}
	_ = m.cache.Set(ctx, key, data, m.cacheTTL)
}

// invalidate drops the table's cached results after a write.
func (m *Model) invalidate(ctx context.Context) {
	if m.cache == nil {
		return
	}
	_ = m.cache.DeletePrefix(ctx, m.sch.Table()+":")
}
