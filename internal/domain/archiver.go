package domain

// Archiver packages a finished run directory into a single archive.
type Archiver interface {
	// Archive compresses sourceDir into an archive next to it, removes
	// the source directory on success, and returns the archive path.
	Archive(sourceDir string) (string, error)

	// Extract unpacks an archive into destDir.
	Extract(archivePath, destDir string) error
}
