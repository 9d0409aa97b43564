package simpleorm_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m-housh/simpleorm"
	"github.com/m-housh/simpleorm/conn"
	"github.com/m-housh/simpleorm/dialect"
	"github.com/m-housh/simpleorm/schema/column"
	"github.com/m-housh/simpleorm/statement"
)

// Full round trip against a real in-memory sqlite database.
func TestSQLiteRoundTrip(t *testing.T) {
	mgr := conn.NewSingle(dialect.SQLite, "file:simpleorm_test?mode=memory&cache=shared", conn.KeepAlive())
	defer mgr.Close()

	notes, err := simpleorm.Define(simpleorm.Config{Name: "Note", Manager: mgr},
		column.UUID("id").PrimaryKey().DefaultFunc(column.NewUUID),
		column.String("title"),
		column.String("body"),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, notes.CreateTable(ctx))

	n := notes.New(simpleorm.Values{"title": "hello", "body": "world"})
	id, ok := n.Get("id")
	require.True(t, ok)
	require.IsType(t, uuid.UUID{}, id)

	require.NoError(t, notes.Save(ctx, n))
	assert.True(t, n.Persisted())

	// Fetch by the generated primary key; sqlite hands uuids back as the
	// text the driver stored.
	got, err := notes.OneInstance(ctx, statement.Eq("id", id.(uuid.UUID).String()))
	require.NoError(t, err)
	require.NotNil(t, got)
	title, _ := got.Get("title")
	assert.Equal(t, "hello", title)
	assert.True(t, got.Persisted())

	// Update in place and re-fetch.
	n.Set("body", "updated")
	require.NoError(t, notes.Save(ctx, n))

	rec, found, err := notes.OneRecord(ctx, statement.Eq("title", "hello"))
	require.NoError(t, err)
	require.True(t, found)
	body, _ := rec.Get("body")
	assert.Equal(t, "updated", body)

	// A second row only matches its own filters.
	other := notes.New(simpleorm.Values{"title": "second", "body": "row"})
	require.NoError(t, notes.Save(ctx, other))

	recs, err := notes.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = notes.Records(ctx, statement.Eq("title", "second"))
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// Delete detaches and removes the row.
	require.NoError(t, notes.Delete(ctx, n))
	assert.False(t, n.Persisted())

	gone, err := notes.OneInstance(ctx, statement.Eq("id", id.(uuid.UUID).String()))
	require.NoError(t, err)
	assert.Nil(t, gone)

	one, err := notes.GetOne(ctx, statement.Eq("title", "hello"))
	require.NoError(t, err)
	assert.Nil(t, one)

	require.NoError(t, notes.DropTable(ctx, false))
}
