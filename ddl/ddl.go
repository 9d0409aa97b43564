// Package ddl builds table DDL strings from model schemas. These are
// thin string builders; execution goes through the model layer.
package ddl

import (
	"fmt"
	"strings"

	"github.com/m-housh/simpleorm/schema"
)

// CreateTable renders a CREATE TABLE IF NOT EXISTS statement for the
// schema. It fails when a column has no declared type.
func CreateTable(sch *schema.Schema) (string, error) {
	cols := sch.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		def, err := c.DDL()
		if err != nil {
			return "", fmt.Errorf("ddl: create table %s: %w", sch.Table(), err)
		}
		defs[i] = def
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		sch.Table(), strings.Join(defs, ", "),
	), nil
}

// DropTable renders a DROP TABLE IF EXISTS statement for the schema.
func DropTable(sch *schema.Schema, cascade bool) string {
	stmt := "DROP TABLE IF EXISTS " + sch.Table()
	if cascade {
		stmt += " CASCADE"
	}
	return stmt
}

// TruncateTable renders a TRUNCATE TABLE statement, leaving the table
// definition intact.
func TruncateTable(sch *schema.Schema, cascade bool) string {
	stmt := "TRUNCATE TABLE " + sch.Table()
	if cascade {
		stmt += " CASCADE"
	}
	return stmt
}
