package usecase

import (
	"context"
	"sync"
	"time"
)

// Cleanup prunes archives older than the retention window from every
// configured destination, the local output root included.
type Cleanup struct {
	targets       []UploadTarget
	logger        Logger
	retentionDays int
}

func NewCleanup(targets []UploadTarget, logger Logger, retentionDays int) *Cleanup {
	return &Cleanup{
		targets:       targets,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

func (uc *Cleanup) Execute(ctx context.Context) error {
	if uc.retentionDays <= 0 {
		return nil
	}

	uc.logger.Infof("Starting cleanup, retention: %d days", uc.retentionDays)
	cutoff := time.Now().AddDate(0, 0, -uc.retentionDays)

	var wg sync.WaitGroup
	for _, target := range uc.targets {
		wg.Add(1)
		go func(t UploadTarget) {
			defer wg.Done()

			if err := uc.cleanupTarget(ctx, t, cutoff); err != nil {
				uc.logger.Errorf("Cleanup failed for %s: %v", t.Name, err)
			}
		}(target)
	}
	wg.Wait()

	uc.logger.Infof("Cleanup completed")
	return nil
}

func (uc *Cleanup) cleanupTarget(ctx context.Context, target UploadTarget, cutoff time.Time) error {
	files, err := target.Storage.GetOldFiles(ctx, cutoff)
	if err != nil {
		return err
	}

	deleted := 0
	for _, filename := range files {
		uc.logger.Infof("Deleting old backup from %s: %s", target.Name, filename)

		if err := target.Storage.Delete(ctx, filename); err != nil {
			uc.logger.Errorf("Failed to delete %s from %s: %v", filename, target.Name, err)
		} else {
			deleted++
		}
	}

	uc.logger.Infof("Deleted %d old backup(s) from %s", deleted, target.Name)
	return nil
}
