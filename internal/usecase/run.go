package usecase

import (
	"context"

	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/domain"
)

// Runner sequences backups across the resolved database configurations.
// Databases run one at a time: each connector serves a single in-flight
// operation and error attribution stays simple.
type Runner struct {
	cfg           *config.Config
	open          ConnectorOpener
	archiver      domain.Archiver
	uploadTargets []UploadTarget
	logger        Logger
}

func NewRunner(
	cfg *config.Config,
	open ConnectorOpener,
	archiver domain.Archiver,
	uploadTargets []UploadTarget,
	logger Logger,
) *Runner {
	return &Runner{
		cfg:           cfg,
		open:          open,
		archiver:      archiver,
		uploadTargets: uploadTargets,
		logger:        logger,
	}
}

// Run backs up every selected database in input order and returns one
// outcome per database. One database's total failure never prevents the
// next from being attempted. An unmatched label fails before any backup
// starts.
func (r *Runner) Run(ctx context.Context, labels []string) ([]domain.RunOutcome, error) {
	selected, err := r.cfg.SelectDatabases(labels)
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.RunOutcome, 0, len(selected))
	for _, db := range selected {
		backup := NewBackup(db, r.open, r.archiver, r.uploadTargets, r.cfg.Backup, r.logger)
		outcomes = append(outcomes, backup.Execute(ctx))
	}

	return outcomes, nil
}

// AnyFailed reports whether the process exit status should be nonzero.
func AnyFailed(outcomes []domain.RunOutcome) bool {
	for _, outcome := range outcomes {
		if !outcome.Success {
			return true
		}
	}
	return false
}
