package connector

import (
	"database/sql"
	"fmt"

	"github.com/semmidev/rowvault/internal/domain"
)

// scanRows materializes a result set into rows with dynamically discovered
// columns. []byte values become strings so every row is JSON-encodable.
func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []domain.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, domain.NewRow(columns, values))
	}
	return out, rows.Err()
}
