package conn

import (
	"context"
	"database/sql"

	"golang.org/x/sync/semaphore"

	"github.com/m-housh/simpleorm/dialect"
)

// Pool is a Manager backed by a shared connection pool. Acquire checks
// a dedicated connection out of the pool, blocking until one is
// available when MaxConns is set; Release returns it unconditionally.
type Pool struct {
	dialect string
	db      *sql.DB
	sem     *semaphore.Weighted // nil when checkouts are uncapped
}

// NewPool opens a pool manager for the given dialect and DSN. A
// maxConns greater than zero caps both the pool size and the number of
// concurrent checkouts.
func NewPool(d, dsn string, maxConns int) (*Pool, error) {
	db, err := sql.Open(d, dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	return NewPoolDB(d, db, maxConns), nil
}

// NewPoolDB wraps an existing *sql.DB with a pool manager. The caller
// keeps ownership of pool sizing on the DB itself.
func NewPoolDB(d string, db *sql.DB, maxConns int) *Pool {
	p := &Pool{dialect: dialect.Detect(d), db: db}
	if maxConns > 0 {
		p.sem = semaphore.NewWeighted(int64(maxConns))
	}
	return p
}

// Dialect returns the dialect the pool was opened with.
func (p *Pool) Dialect() string { return p.dialect }

// DB returns the underlying pool.
func (p *Pool) DB() *sql.DB { return p.db }

// Acquire checks a connection out of the pool, waiting for a free slot
// when checkouts are capped. Cancelling ctx aborts the wait.
func (p *Pool) Acquire(ctx context.Context) (Conn, error) {
	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	c, err := p.db.Conn(ctx)
	if err != nil {
		if p.sem != nil {
			p.sem.Release(1)
		}
		return nil, err
	}
	return c, nil
}

// Release returns the connection to the pool.
func (p *Pool) Release(c Conn) error {
	if p.sem != nil {
		defer p.sem.Release(1)
	}
	if sc, ok := c.(*sql.Conn); ok {
		return sc.Close()
	}
	return nil
}

// Close closes the underlying pool.
func (p *Pool) Close() error { return p.db.Close() }

var _ Manager = (*Pool)(nil)
