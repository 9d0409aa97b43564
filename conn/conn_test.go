package conn_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-housh/simpleorm/conn"
)

// fakeManager hands out one *sql.DB and counts the traffic through it.
type fakeManager struct {
	db         *sql.DB
	acquireErr error
	acquired   int
	released   int
}

func (m *fakeManager) Acquire(context.Context) (conn.Conn, error) {
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.acquired++
	return m.db, nil
}

func (m *fakeManager) Release(conn.Conn) error {
	m.released++
	return nil
}

func (m *fakeManager) Close() error    { return nil }
func (m *fakeManager) Dialect() string { return "sqlmock" }

func newMockManager(t *testing.T) (*fakeManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &fakeManager{db: db}, mock
}

func TestWith(t *testing.T) {
	m, _ := newMockManager(t)

	err := conn.With(context.Background(), m, func(c conn.Conn) error {
		require.NotNil(t, c)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.acquired)
	assert.Equal(t, 1, m.released)
}

func TestWith_ReleasesOnError(t *testing.T) {
	m, _ := newMockManager(t)
	boom := errors.New("boom")

	err := conn.With(context.Background(), m, func(conn.Conn) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.released)
}

func TestWith_AcquireError(t *testing.T) {
	m, _ := newMockManager(t)
	m.acquireErr = errors.New("no conn")

	err := conn.With(context.Background(), m, func(conn.Conn) error { return nil })
	require.ErrorIs(t, err, m.acquireErr)
	assert.Zero(t, m.released)
}

func TestWithTx_Commit(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := conn.WithTx(context.Background(), m, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "INSERT INTO users (name) VALUES ($1)", "foo")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.released)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	m, mock := newMockManager(t)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := conn.WithTx(context.Background(), m, func(*sql.Tx) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.released)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	p := conn.NewPoolDB("postgres", db, 2)
	assert.Equal(t, "postgres", p.Dialect())
	assert.Same(t, db, p.DB())

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	_, ok := c.(*sql.Conn)
	require.True(t, ok)

	_, err = c.ExecContext(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.NoError(t, p.Release(c))

	mock.ExpectClose()
	require.NoError(t, p.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_CappedCheckouts(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)

	p := conn.NewPoolDB("postgres", db, 1)
	defer p.Close()

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)

	// The only slot is held; a second Acquire must respect cancellation.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, p.Release(c))
	c, err = p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(c))
}

func TestSingle_KeepAlive(t *testing.T) {
	_, mock, err := sqlmock.NewWithDSN("single_keepalive")
	require.NoError(t, err)

	m := conn.NewSingle("sqlmock", "single_keepalive", conn.KeepAlive())
	assert.Equal(t, "sqlmock", m.Dialect())

	a, err := m.Acquire(context.Background())
	require.NoError(t, err)
	b, err := m.Acquire(context.Background())
	require.NoError(t, err)

	// Keep-alive reuses the same connection across scopes; Release is a
	// no-op and the connection stays usable.
	assert.Same(t, a, b)
	require.NoError(t, m.Release(a))

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = b.ExecContext(context.Background(), "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestSingle_FreshPerAcquire(t *testing.T) {
	_, _, err := sqlmock.NewWithDSN("single_fresh")
	require.NoError(t, err)

	m := conn.NewSingle("sqlmock", "single_fresh")
	defer m.Close()

	a, err := m.Acquire(context.Background())
	require.NoError(t, err)
	b, err := m.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	require.NoError(t, m.Release(a))
	require.NoError(t, m.Release(b))
}
