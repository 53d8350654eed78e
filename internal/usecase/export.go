package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/semmidev/rowvault/internal/domain"
	apperrors "github.com/semmidev/rowvault/internal/errors"
)

// Exporter streams one table's rows into individual JSON files without
// ever holding more than one batch in memory.
type Exporter struct {
	conn      domain.Connector
	batchSize int
}

func NewExporter(conn domain.Connector, batchSize int) *Exporter {
	return &Exporter{
		conn:      conn,
		batchSize: batchSize,
	}
}

// ExportTable fetches the table in LIMIT/OFFSET batches and writes one
// file per row under tableDir. The returned count is the number of rows
// on disk, even when the export fails partway: already-written files are
// kept for inspection.
func (e *Exporter) ExportTable(ctx context.Context, table, tableDir string) (int64, error) {
	if err := os.MkdirAll(tableDir, 0755); err != nil {
		return 0, apperrors.NewExportError(table, 0, err)
	}

	var total int64
	offset := 0
	for {
		rows, err := e.conn.FetchBatch(ctx, table, e.batchSize, offset)
		if err != nil {
			return total, apperrors.NewExportError(table, total, err)
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			if err := writeRowFile(tableDir, row, total); err != nil {
				return total, apperrors.NewExportError(table, total, err)
			}
			total++
		}

		offset += len(rows)
		if len(rows) < e.batchSize {
			// last (partial) batch
			break
		}
	}

	return total, nil
}

func writeRowFile(tableDir string, row domain.Row, index int64) error {
	data, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return fmt.Errorf("encode row %d: %w", index, err)
	}

	path := filepath.Join(tableDir, rowStem(row, index)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write row %d: %w", index, err)
	}
	return nil
}
