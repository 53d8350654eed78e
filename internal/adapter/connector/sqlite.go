package connector

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/domain"
	apperrors "github.com/semmidev/rowvault/internal/errors"
)

// SQLiteConnector reads a SQLite file. The connection is opened with
// mode=ro, so the source can never be mutated, even on a crash mid-read.
type SQLiteConnector struct {
	db   *sql.DB
	path string

	closeOnce sync.Once
	closeErr  error
}

func NewSQLite(cfg config.DatabaseConfig) (*SQLiteConnector, error) {
	path, err := filepath.Abs(strings.TrimSpace(cfg.Path))
	if err != nil {
		return nil, apperrors.NewConnectionError(cfg.Name, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConnectionError(cfg.Name, fmt.Errorf("sqlite file not found: %s", path))
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, apperrors.NewConnectionError(cfg.Name, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperrors.NewConnectionError(cfg.Name, err)
	}

	return &SQLiteConnector{db: db, path: path}, nil
}

func (c *SQLiteConnector) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (c *SQLiteConnector) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteSQLite(table))
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return count, nil
}

func (c *SQLiteConnector) FetchBatch(ctx context.Context, table string, limit, offset int) ([]domain.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s LIMIT ? OFFSET ?`, quoteSQLite(table))
	rows, err := c.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch batch of %s: %w", table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (c *SQLiteConnector) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.db.Close()
	})
	return c.closeErr
}

// quoteSQLite quotes an identifier discovered from the live schema.
func quoteSQLite(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
