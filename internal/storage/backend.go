package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrInvalidKey = errors.New("invalid document key")
)

type Entry struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Backend is a flat key/value document store. Implementations must be safe
// for concurrent use; the last writer for a key wins.
type Backend interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]Entry, error)
	// Location describes where documents live, for reporting.
	Location() string
}

type DiskUsage struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// DiskReporter is implemented by backends that sit on a local filesystem.
type DiskReporter interface {
	DiskUsage() (DiskUsage, error)
}

// ErrDiskUsageUnsupported is returned on platforms without statfs.
var ErrDiskUsageUnsupported = errors.New("disk usage not available on this platform")
