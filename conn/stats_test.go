package conn_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-housh/simpleorm/conn"
)

func TestObserver_Record(t *testing.T) {
	o := conn.NewObserver(conn.WithSlowThreshold(time.Hour))
	ctx := context.Background()

	o.Record(ctx, "SELECT 1", nil, time.Now(), nil, true)
	o.Record(ctx, "SELECT 2", nil, time.Now(), nil, true)
	o.Record(ctx, "INSERT", nil, time.Now(), nil, false)
	o.Record(ctx, "DELETE", nil, time.Now(), assert.AnError, false)

	s := o.QueryStats().Stats()
	assert.EqualValues(t, 2, s.TotalQueries)
	assert.EqualValues(t, 2, s.TotalExecs)
	assert.EqualValues(t, 1, s.Errors)
	assert.EqualValues(t, 0, s.SlowQueries)
	assert.GreaterOrEqual(t, s.TotalDuration, time.Duration(0))

	o.QueryStats().Reset()
	assert.Equal(t, conn.StatsSnapshot{}, o.QueryStats().Stats())
}

func TestObserver_SlowQueryHook(t *testing.T) {
	var (
		gotQuery string
		gotArgs  []any
	)
	o := conn.NewObserver(
		conn.WithSlowThreshold(time.Millisecond),
		conn.WithSlowQueryHook(func(_ context.Context, query string, args []any, d time.Duration) {
			gotQuery = query
			gotArgs = args
			assert.Greater(t, d, time.Millisecond)
		}),
	)

	// A start well in the past makes the statement slow by definition.
	start := time.Now().Add(-time.Second)
	o.Record(context.Background(), "SELECT * FROM users", []any{1}, start, nil, true)

	assert.Equal(t, "SELECT * FROM users", gotQuery)
	assert.Equal(t, []any{1}, gotArgs)
	assert.EqualValues(t, 1, o.QueryStats().Stats().SlowQueries)
}

func TestObserver_Threshold(t *testing.T) {
	o := conn.NewObserver()
	assert.Equal(t, 100*time.Millisecond, o.SlowThreshold())

	o.SetSlowThreshold(time.Second)
	assert.Equal(t, time.Second, o.SlowThreshold())
}

func TestObserver_NilReceiver(t *testing.T) {
	var o *conn.Observer
	assert.NotPanics(t, func() {
		o.Record(context.Background(), "SELECT 1", nil, time.Now(), nil, true)
	})
}

func TestStatsSnapshot(t *testing.T) {
	s := conn.StatsSnapshot{
		TotalQueries:  3,
		TotalExecs:    1,
		TotalDuration: 4 * time.Second,
		SlowQueries:   1,
		Errors:        2,
	}
	assert.Equal(t, time.Second, s.AvgQueryDuration())
	assert.Equal(t, "queries=3 execs=1 duration=4s avg=1s slow=1 errors=2", s.String())

	assert.Zero(t, conn.StatsSnapshot{}.AvgQueryDuration())
}

func TestParseConfig(t *testing.T) {
	cfg, err := conn.ParseConfig([]byte(`
dialect: postgres
dsn: postgres://localhost:5432/app
pool: true
max_conns: 8
`))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "postgres://localhost:5432/app", cfg.DSN)
	assert.True(t, cfg.Pool)
	assert.Equal(t, 8, cfg.MaxConns)
	assert.False(t, cfg.KeepAlive)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := conn.ParseConfig([]byte(`dsn: x`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing dialect")

	_, err = conn.ParseConfig([]byte(`dialect: postgres`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing dsn")

	_, err = conn.ParseConfig([]byte(`{`))
	require.Error(t, err)
}

func TestConfig_Manager(t *testing.T) {
	cfg := &conn.Config{Dialect: "sqlite", DSN: ":memory:", KeepAlive: true}
	m, err := cfg.Manager()
	require.NoError(t, err)
	defer m.Close()
	_, ok := m.(*conn.Single)
	assert.True(t, ok)
	assert.Equal(t, "sqlite", m.Dialect())

	_, _, err = sqlmock.NewWithDSN("cfg_pool")
	require.NoError(t, err)
	cfg = &conn.Config{Dialect: "sqlmock", DSN: "cfg_pool", Pool: true, MaxConns: 2}
	m, err = cfg.Manager()
	require.NoError(t, err)
	defer m.Close()
	_, ok = m.(*conn.Pool)
	assert.True(t, ok)
}
