package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/domain"
	apperrors "github.com/semmidev/rowvault/internal/errors"
)

const mysqlConnectTimeout = 10 * time.Second

// MySQLConnector reads a MySQL or MariaDB database over the wire.
type MySQLConnector struct {
	db *sql.DB

	closeOnce sync.Once
	closeErr  error
}

func NewMySQL(cfg config.DatabaseConfig) (*MySQLConnector, error) {
	dsn := mysql.Config{
		User:                 cfg.Username,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DBName:               cfg.Database,
		Timeout:              mysqlConnectTimeout,
		ParseTime:            true,
		AllowNativePasswords: true,
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, apperrors.NewConnectionError(cfg.Name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mysqlConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewConnectionError(cfg.Name, err)
	}

	return &MySQLConnector{db: db}, nil
}

func (c *MySQLConnector) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SHOW TABLES")
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

func (c *MySQLConnector) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteMySQL(table))
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return count, nil
}

func (c *MySQLConnector) FetchBatch(ctx context.Context, table string, limit, offset int) ([]domain.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT ? OFFSET ?", quoteMySQL(table))
	rows, err := c.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch batch of %s: %w", table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (c *MySQLConnector) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.db.Close()
	})
	return c.closeErr
}

// quoteMySQL quotes an identifier discovered from the live schema.
func quoteMySQL(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}
