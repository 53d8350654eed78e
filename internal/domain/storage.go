package domain

import (
	"context"
	"time"
)

// Storage is a destination that finished archives can be copied to and
// pruned from.
type Storage interface {
	Upload(ctx context.Context, localPath string, remoteName string) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, remoteName string) error
	GetOldFiles(ctx context.Context, cutoffTime time.Time) ([]string, error)
}
