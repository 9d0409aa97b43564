package simpleorm_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/m-housh/simpleorm"
)

func TestTableLifecycle(t *testing.T) {
	m, mock := newUsersModel(t, simpleorm.Config{})
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users (_id uuid PRIMARY KEY, name text, email text)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	require.NoError(t, m.CreateTable(ctx))

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	require.NoError(t, m.TruncateTable(ctx, false))

	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE IF EXISTS users CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	require.NoError(t, m.DropTable(ctx, true))

	require.NoError(t, mock.ExpectationsWereMet())
}
