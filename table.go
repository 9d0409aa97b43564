package simpleorm

import (
	"context"

	"github.com/m-housh/simpleorm/ddl"
)

// CreateTable creates the model's table if it does not exist.
func (m *Model) CreateTable(ctx context.Context) error {
	stmt, err := ddl.CreateTable(m.sch)
	if err != nil {
		return err
	}
	_, err = m.Exec(ctx, stmt)
	return err
}

// DropTable drops the model's table if it exists.
func (m *Model) DropTable(ctx context.Context, cascade bool) error {
	_, err := m.Exec(ctx, ddl.DropTable(m.sch, cascade))
	return err
}

// TruncateTable truncates the model's table, leaving its definition
// intact.
func (m *Model) TruncateTable(ctx context.Context, cascade bool) error {
	_, err := m.Exec(ctx, ddl.TruncateTable(m.sch, cascade))
	return err
}
