package archiver

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	apperrors "github.com/semmidev/rowvault/internal/errors"
)

const Extension = ".tar.gz"

// TarGz packages a run directory into a .tar.gz archive next to it.
type TarGz struct{}

func NewTarGz() *TarGz {
	return &TarGz{}
}

// Archive compresses sourceDir into <sourceDir>.tar.gz and removes the
// source on success. Entries are stored under the directory's base name,
// so extraction reproduces the original layout.
func (t *TarGz) Archive(sourceDir string) (string, error) {
	archivePath := sourceDir + Extension

	out, err := os.Create(archivePath)
	if err != nil {
		return "", apperrors.NewArchiveError(archivePath, err)
	}

	gzw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		_ = out.Close()
		return "", apperrors.NewArchiveError(archivePath, err)
	}
	tw := tar.NewWriter(gzw)

	base := filepath.Base(sourceDir)
	walkErr := filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(base, rel))

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(tw, file)
		return err
	})

	if err := closeAll(walkErr, tw.Close, gzw.Close, out.Close); err != nil {
		_ = os.Remove(archivePath)
		return "", apperrors.NewArchiveError(archivePath, err)
	}

	if err := os.RemoveAll(sourceDir); err != nil {
		return "", apperrors.NewArchiveError(archivePath, fmt.Errorf("remove source directory: %w", err))
	}

	return archivePath, nil
}

// Extract unpacks an archive into destDir.
func (t *TarGz) Extract(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return apperrors.NewArchiveError(archivePath, err)
	}
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return apperrors.NewArchiveError(archivePath, err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return apperrors.NewArchiveError(archivePath, err)
		}

		// Reject entries that would escape destDir.
		target := filepath.Join(destDir, filepath.FromSlash(header.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return apperrors.NewArchiveError(archivePath, fmt.Errorf("illegal entry path: %s", header.Name))
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return apperrors.NewArchiveError(archivePath, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return apperrors.NewArchiveError(archivePath, err)
			}
			dest, err := os.Create(target)
			if err != nil {
				return apperrors.NewArchiveError(archivePath, err)
			}
			if _, err := io.Copy(dest, tr); err != nil {
				_ = dest.Close()
				return apperrors.NewArchiveError(archivePath, err)
			}
			if err := dest.Close(); err != nil {
				return apperrors.NewArchiveError(archivePath, err)
			}
		}
	}
}

func closeAll(err error, closers ...func() error) error {
	for _, close := range closers {
		if cerr := close(); err == nil {
			err = cerr
		}
	}
	return err
}
