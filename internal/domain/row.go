package domain

import (
	"bytes"
	"encoding/json"
)

// Row is one database row: column names in result-set order plus their
// values. No primary key or schema is assumed.
type Row struct {
	columns []string
	values  map[string]any
}

func NewRow(columns []string, values []any) Row {
	m := make(map[string]any, len(columns))
	for i, col := range columns {
		m[col] = values[i]
	}
	return Row{columns: columns, values: m}
}

// Columns returns the column names in result-set order.
func (r Row) Columns() []string {
	return r.columns
}

// Value returns the value for a column and whether the column exists.
func (r Row) Value(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

func (r Row) Len() int {
	return len(r.columns)
}

// MarshalJSON encodes the row as a JSON object preserving column order,
// so two runs over an unchanged source produce byte-identical records.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
