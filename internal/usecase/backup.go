package usecase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/domain"
)

const ManifestFilename = "manifest.json"

// ConnectorOpener opens a live connector for one resolved database
// configuration.
type ConnectorOpener func(config.DatabaseConfig) (domain.Connector, error)

type UploadTarget struct {
	Name    string
	Storage domain.Storage
}

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Backup drives one database's full backup: connector setup, per-table
// export, manifest assembly, optional archiving and upload.
type Backup struct {
	cfg             config.DatabaseConfig
	open            ConnectorOpener
	archiver        domain.Archiver
	uploadTargets   []UploadTarget
	outputDir       string
	timestampFormat string
	compress        bool
	logger          Logger
}

func NewBackup(
	cfg config.DatabaseConfig,
	open ConnectorOpener,
	archiver domain.Archiver,
	uploadTargets []UploadTarget,
	backupCfg config.BackupConfig,
	logger Logger,
) *Backup {
	return &Backup{
		cfg:             cfg,
		open:            open,
		archiver:        archiver,
		uploadTargets:   uploadTargets,
		outputDir:       backupCfg.OutputDir,
		timestampFormat: backupCfg.TimestampFormat,
		compress:        backupCfg.Compress,
		logger:          logger,
	}
}

// Execute runs the whole backup for one database and never returns an
// uncaught error: every failure lands in the outcome or the manifest.
func (b *Backup) Execute(ctx context.Context) domain.RunOutcome {
	label := b.cfg.Name
	started := time.Now()
	b.logger.Infof("[%s] Starting backup (%s, %s)", label, b.cfg.Type, b.cfg.ConnectionString())

	conn, err := b.open(b.cfg)
	if err != nil {
		// Fail fast: no run directory, no manifest.
		b.logger.Errorf("[%s] Connection failed: %v", label, err)
		return domain.RunOutcome{Label: label, Success: false, Err: err}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			b.logger.Warnf("[%s] Closing connection: %v", label, cerr)
		}
	}()

	// The run directory name keys off the timestamp only, not the label.
	// Two labeled backups of the same invocation can collide on it; that
	// is a known limitation.
	runDir := filepath.Join(b.outputDir, started.Format(b.timestampFormat))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		b.logger.Errorf("[%s] Create run directory: %v", label, err)
		return domain.RunOutcome{Label: label, Success: false, Err: err}
	}

	manifest := domain.NewManifest(label, b.cfg.Type, b.cfg.ConnectionString(), started)

	tables, err := conn.Tables(ctx)
	if err != nil {
		b.logger.Errorf("[%s] Table discovery failed: %v", label, err)
		manifest.Finalize(time.Now())
		manifest.Status = domain.StatusFailed
		if werr := writeManifest(runDir, manifest); werr != nil {
			b.logger.Errorf("[%s] Write manifest: %v", label, werr)
		}
		return domain.RunOutcome{Label: label, Manifest: manifest, ArtifactPath: runDir, Success: false, Err: err}
	}

	b.logger.Infof("[%s] Found %d table(s)", label, len(tables))
	exporter := NewExporter(conn, b.cfg.BatchSize)

	for _, table := range tables {
		if count, cerr := conn.RowCount(ctx, table); cerr == nil {
			b.logger.Infof("[%s] Exporting %s (~%d row(s))", label, table, count)
		} else {
			b.logger.Warnf("[%s] Exporting %s (row count unavailable: %v)", label, table, cerr)
		}

		exported, eerr := exporter.ExportTable(ctx, table, filepath.Join(runDir, table))
		if eerr != nil {
			// One table's failure never aborts the rest of the run.
			b.logger.Errorf("[%s] Export failed for %s: %v", label, table, eerr)
			manifest.RecordTable(table, domain.TableResult{
				Rows:   exported,
				Status: domain.TableFailed,
				Error:  eerr.Error(),
			})
			continue
		}
		manifest.RecordTable(table, domain.TableResult{
			Rows:   exported,
			Status: domain.TableSuccess,
		})
	}

	manifest.Finalize(time.Now())

	// The manifest is the last file written into the directory that gets
	// archived.
	if err := writeManifest(runDir, manifest); err != nil {
		b.logger.Errorf("[%s] Write manifest: %v", label, err)
		return domain.RunOutcome{Label: label, Manifest: manifest, ArtifactPath: runDir, Success: false, Err: err}
	}

	artifact := runDir
	if b.compress && manifest.Status != domain.StatusFailed {
		archivePath, aerr := b.archiver.Archive(runDir)
		if aerr != nil {
			// The raw directory is the fallback deliverable.
			b.logger.Warnf("[%s] Archive failed, keeping raw directory: %v", label, aerr)
		} else {
			artifact = archivePath
		}
	}

	success := manifest.Status != domain.StatusFailed
	if success && artifact != runDir {
		b.uploadArtifact(ctx, artifact)
	}

	b.logger.Infof("[%s] Backup %s: %d table(s), %d row(s) → %s",
		label, manifest.Status, manifest.TotalTables, manifest.TotalRows, artifact)

	return domain.RunOutcome{
		Label:        label,
		Manifest:     manifest,
		ArtifactPath: artifact,
		Success:      success,
	}
}

func (b *Backup) uploadArtifact(ctx context.Context, archivePath string) {
	if len(b.uploadTargets) == 0 {
		return
	}

	label := b.cfg.Name
	remoteName := filepath.Base(archivePath)

	var wg sync.WaitGroup
	for _, target := range b.uploadTargets {
		wg.Add(1)
		go func(t UploadTarget) {
			defer wg.Done()

			b.logger.Infof("[%s] Uploading to %s...", label, t.Name)
			if err := t.Storage.Upload(ctx, archivePath, remoteName); err != nil {
				b.logger.Errorf("[%s] Failed to upload to %s: %v", label, t.Name, err)
			} else {
				b.logger.Infof("[%s] Successfully uploaded to %s", label, t.Name)
			}
		}(target)
	}
	wg.Wait()
}

func writeManifest(runDir string, manifest *domain.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(runDir, ManifestFilename), data, 0644)
}
