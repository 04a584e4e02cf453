package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/kvdb/internal/model"
)

// Error kinds. Implementations wrap the underlying driver error together
// with one of these, so callers classify failures with errors.Is.
var (
	ErrConnection = errors.New("connection error")
	ErrSchema     = errors.New("schema error")
	ErrWrite      = errors.New("write error")
	ErrRead       = errors.New("read error")
	ErrNotFound   = errors.New("key not found")
)

// Store defines the persistence interface for key-value records.
type Store interface {
	// EnsureSchema creates the kv table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// Set inserts key or, if it exists, replaces its value and refreshes
	// update_ts. insert_ts is never changed.
	Set(ctx context.Context, key, value string) error

	// Get returns the value for key. found is false when no row matches;
	// that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Delete removes key. It returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, key string) error

	// Timestamps returns the insert and update times for key, or
	// ErrNotFound.
	Timestamps(ctx context.Context, key string) (model.Timestamps, error)

	// List returns every record ordered by key.
	List(ctx context.Context) ([]*model.Record, error)

	// Lifecycle
	Close() error
}
