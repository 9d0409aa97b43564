package simpleorm

import "database/sql"

// Record is a raw row returned by the driver, addressed by column key
// rather than mapped into a model instance. Column order follows the
// result set.
type Record struct {
	Columns []string
	Values  []any
}

// Get returns the value for the given column key.
func (r Record) Get(key string) (any, bool) {
	for i, c := range r.Columns {
		if c == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of columns in the record.
func (r Record) Len() int { return len(r.Columns) }

// scanRecords drains rows into records. The caller owns closing rows.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var recs []Record
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		recs = append(recs, Record{Columns: cols, Values: values})
	}
	return recs, rows.Err()
}
