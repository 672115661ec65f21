package repository

import (
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrEmptyKey     = RepositoryError("key is required")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// KeyValueRepository is the platform storage a persisted value lives in.
// Values are opaque bytes (JSON in practice).
type KeyValueRepository interface {
	// Get returns ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. origin identifies the writing process so
	// watchers can recognise their own writes.
	Set(ctx context.Context, key string, value []byte, origin string) error
	Delete(ctx context.Context, key string) error
}

// Change is a native change notification for one key.
// Value is nil when the key was deleted.
type Change struct {
	Key       string
	Value     []byte
	Origin    string // Empty if the backend cannot tell who wrote
	UpdatedAt time.Time
}

// Watcher is implemented by backends that can report writes made by other
// processes (another tab, another server instance).
type Watcher interface {
	// Watch streams changes to key until ctx is done, then closes the channel.
	Watch(ctx context.Context, key string) (<-chan Change, error)
}
