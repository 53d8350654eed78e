package errors

import "fmt"

// ConfigError reports an invalid or unresolvable configuration value.
// It is fatal: nothing runs when one is returned.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for '%s': %s", e.Field, e.Message)
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// ConnectionError means one database could not be opened or kept alive.
// It fails that database's run without stopping the others.
type ConnectionError struct {
	Label string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed for database '%s': %v", e.Label, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func NewConnectionError(label string, err error) *ConnectionError {
	return &ConnectionError{
		Label: label,
		Err:   err,
	}
}

// ExportError is a fetch or write failure partway through one table. The
// offset records how far the export got before the failure.
type ExportError struct {
	Table  string
	Offset int64
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed for table '%s' at offset %d: %v", e.Table, e.Offset, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func NewExportError(table string, offset int64, err error) *ExportError {
	return &ExportError{
		Table:  table,
		Offset: offset,
		Err:    err,
	}
}

// ArchiveError wraps a failure to compress a finished run directory. The
// raw directory is kept, so callers treat it as a warning.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive failed for '%s': %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

func NewArchiveError(path string, err error) *ArchiveError {
	return &ArchiveError{
		Path: path,
		Err:  err,
	}
}
