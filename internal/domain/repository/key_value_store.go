package repository

import (
	"context"
	"errors"

	"mediflow/internal/domain/entity"
)

// ErrVersionConflict is returned by CompareAndSwap when the stored version
// no longer matches the version the caller read
var ErrVersionConflict = errors.New("key-value version conflict")

// KeyValueStore is the storage medium for every record collection.
// Values are opaque JSON documents addressed by string key.
type KeyValueStore interface {
	// Get returns nil, nil when key holds no value
	Get(ctx context.Context, key string) (*entity.KVItem, error)
	// Set overwrites key unconditionally and returns the new version
	Set(ctx context.Context, key string, value []byte) (int64, error)
	// CompareAndSwap writes value only if the stored version equals expectedVersion.
	// An expectedVersion of 0 requires the key to be absent.
	CompareAndSwap(ctx context.Context, key string, expectedVersion int64, value []byte) (int64, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
