// Package conn provides the connection managers the model layer
// executes statements through.
//
// A Manager is a reusable source of a database connection exposing
// scoped acquisition: Acquire checks a connection out, Release returns
// it, and the With and WithTx helpers guarantee release on every exit
// path, including failures and cancellation mid-flight. Two variants
// share the interface: Single wraps one physical connection, Pool
// checks connections out of a shared pool. Either can be shared by any
// number of models; sharing one Pool across models is the intended way
// to avoid redundant pool creation.
package conn

import (
	"context"
	"database/sql"
)

// Conn is the capability a manager hands out: the standard
// context-aware statement execution methods plus transaction start.
// Both *sql.DB and *sql.Conn satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Manager is a reusable source of a database connection.
type Manager interface {
	// Acquire returns a usable connection, blocking until one is
	// available per the manager's policy.
	Acquire(ctx context.Context) (Conn, error)
	// Release returns a connection obtained from Acquire. It must be
	// called exactly once per successful Acquire, even on failure.
	Release(Conn) error
	// Close releases the underlying connection or pool.
	Close() error
	// Dialect returns the dialect the manager was opened with.
	Dialect() string
}

// With runs fn with an acquired connection, releasing it on every exit
// path.
func With(ctx context.Context, m Manager, fn func(Conn) error) error {
	c, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer m.Release(c)
	return fn(c)
}

// WithTx runs fn inside a transaction on an acquired connection. The
// transaction is committed when fn returns nil and rolled back
// otherwise; the connection is released in both cases.
func WithTx(ctx context.Context, m Manager, fn func(*sql.Tx) error) error {
	return With(ctx, m, func(c Conn) error {
		tx, err := c.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
