package app

import (
	"context"
	"fmt"

	"github.com/semmidev/rowvault/internal/adapter/archiver"
	"github.com/semmidev/rowvault/internal/adapter/connector"
	"github.com/semmidev/rowvault/internal/adapter/storage"
	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/infrastructure/logger"
	"github.com/semmidev/rowvault/internal/infrastructure/scheduler"
	"github.com/semmidev/rowvault/internal/usecase"
)

// Default daemon schedules: nightly backups, cleanup an hour later.
const (
	defaultBackupSchedule  = "0 0 2 * * *"
	defaultCleanupSchedule = "0 0 3 * * *"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	scheduler *scheduler.Scheduler
	runner    *usecase.Runner
	cleanupUC *usecase.Cleanup
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infof("Starting %s", cfg.App.Name)
	log.Infof("Found %d database(s) configured", len(cfg.Databases))

	localStorage, err := storage.NewLocal(cfg.Backup.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize output directory: %w", err)
	}

	uploadTargets := initializeUploadTargets(cfg, log)

	runner := usecase.NewRunner(cfg, connector.New, archiver.NewTarGz(), uploadTargets, log)

	// Retention prunes the output root and every remote target.
	cleanupTargets := append(
		[]usecase.UploadTarget{{Name: "local", Storage: localStorage}},
		uploadTargets...,
	)
	cleanupUC := usecase.NewCleanup(cleanupTargets, log, cfg.Backup.RetentionDays)

	return &App{
		config:    cfg,
		logger:    log,
		scheduler: scheduler.New(),
		runner:    runner,
		cleanupUC: cleanupUC,
	}, nil
}

func initializeUploadTargets(cfg *config.Config, log *logger.Logger) []usecase.UploadTarget {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.GetEnabledUploadTargets() {
		switch targetCfg.Type {
		case "s3":
			stor, err := storage.NewS3(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize S3: %v", err)
				continue
			}
			log.Infof("✓ S3 upload enabled (bucket: %s)", targetCfg.Bucket)
			targets = append(targets, usecase.UploadTarget{Name: "s3", Storage: stor})

		default:
			log.Warnf("Unknown upload target type: %s", targetCfg.Type)
		}
	}

	return targets
}

// RunBackup performs one backup pass over the selected databases and
// returns an error when any of them failed, so the process exit status
// reflects the worst outcome.
func (a *App) RunBackup(ctx context.Context, labels []string) error {
	outcomes, err := a.runner.Run(ctx, labels)
	if err != nil {
		return err
	}

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Success {
			succeeded++
			a.logger.Infof("✓ %s → %s", outcome.Label, outcome.ArtifactPath)
		} else {
			a.logger.Errorf("✗ %s: %v", outcome.Label, outcome.Err)
		}
	}
	a.logger.Infof("Done: %d succeeded, %d failed", succeeded, len(outcomes)-succeeded)

	if a.config.Backup.RetentionDays > 0 {
		if err := a.cleanupUC.Execute(ctx); err != nil {
			a.logger.Warnf("Retention cleanup failed: %v", err)
		}
	}

	if failed := len(outcomes) - succeeded; failed > 0 {
		return fmt.Errorf("backup failed for %d of %d database(s)", failed, len(outcomes))
	}
	return nil
}

// RunDaemon schedules recurring backups per database plus a daily
// retention cleanup, then blocks until the context is cancelled.
func (a *App) RunDaemon(ctx context.Context) error {
	for _, db := range a.config.Databases {
		label := db.Name
		spec := db.Schedule
		if spec == "" {
			spec = defaultBackupSchedule
		}

		if err := a.scheduler.AddJob(spec, func(jobCtx context.Context) error {
			a.logger.Infof("=== Triggered scheduled backup for %s ===", label)
			_, err := a.runner.Run(jobCtx, []string{label})
			return err
		}, func(err error) {
			a.logger.Errorf("Scheduled backup for %s: %v", label, err)
		}); err != nil {
			return fmt.Errorf("failed to schedule backup for %s: %w", label, err)
		}

		a.logger.Infof("✓ Scheduled backup for %s: %s", label, spec)
	}

	if a.config.Backup.RetentionDays > 0 {
		if err := a.scheduler.AddJob(defaultCleanupSchedule, a.cleanupUC.Execute, func(err error) {
			a.logger.Errorf("Scheduled cleanup: %v", err)
		}); err != nil {
			return fmt.Errorf("failed to schedule cleanup: %w", err)
		}
		a.logger.Infof("Scheduling cleanup: %s", defaultCleanupSchedule)
	}

	a.scheduler.Start()
	a.logger.Infof("Scheduler started with %d backup job(s)", len(a.config.Databases))

	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down...")
	a.scheduler.Stop()
	a.logger.Close()
}
