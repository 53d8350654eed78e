package connector

import (
	"fmt"

	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/domain"
	apperrors "github.com/semmidev/rowvault/internal/errors"
)

// New selects a connector strictly from the configured engine type. New
// engines register here by implementing domain.Connector.
func New(cfg config.DatabaseConfig) (domain.Connector, error) {
	switch cfg.Type {
	case config.EngineSQLite:
		return NewSQLite(cfg)
	case config.EngineMySQL, config.EngineMariaDB:
		return NewMySQL(cfg)
	default:
		return nil, apperrors.NewConfigError("type",
			fmt.Sprintf("unknown database type %q, use 'sqlite' or 'mysql'", cfg.Type))
	}
}
