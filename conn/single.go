package conn

import (
	"context"
	"database/sql"
	"sync"

	"github.com/m-housh/simpleorm/dialect"
)

// Single is a Manager backed by one physical connection. With KeepAlive
// the connection is lazily opened once and reused across scopes, and
// Release is a no-op; otherwise every Acquire opens a fresh connection
// that Release closes.
type Single struct {
	dialect   string
	dsn       string
	keepAlive bool

	mu sync.Mutex
	db *sql.DB // kept-alive connection, nil until first Acquire
}

// SingleOption configures a Single manager.
type SingleOption func(*Single)

// KeepAlive keeps the connection open for re-use across scopes.
func KeepAlive() SingleOption {
	return func(s *Single) { s.keepAlive = true }
}

// NewSingle returns a single-connection manager for the given dialect
// and DSN. No connection is opened until the first Acquire.
func NewSingle(d, dsn string, opts ...SingleOption) *Single {
	s := &Single{dialect: dialect.Detect(d), dsn: dsn}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the dialect the manager was opened with.
func (s *Single) Dialect() string { return s.dialect }

// Acquire returns the kept-alive connection, opening it on first use,
// or a fresh connection when keep-alive is off.
func (s *Single) Acquire(ctx context.Context) (Conn, error) {
	if !s.keepAlive {
		return s.open(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		db, err := s.open(ctx)
		if err != nil {
			return nil, err
		}
		s.db = db
	}
	return s.db, nil
}

func (s *Single) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.dialect, s.dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Release closes the connection unless it is kept alive.
func (s *Single) Release(c Conn) error {
	if s.keepAlive {
		return nil
	}
	if db, ok := c.(*sql.DB); ok {
		return db.Close()
	}
	return nil
}

// Close closes the kept-alive connection, if one was opened.
func (s *Single) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

var _ Manager = (*Single)(nil)
