// Package kvstore is the durable key-value storage every module persists
// through. A store is scoped to one data directory, the way browser local
// storage is scoped to one origin.
package kvstore

import (
	"context"
	"fmt"
	"regexp"

	apperrors "japa/internal/platform/errors"
)

// Store holds opaque values under short string keys. Writes replace the whole
// value for a key; there are no partial updates.
type Store interface {
	// Get returns apperrors.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete of an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key except the ones listed in keep.
	Clear(ctx context.Context, keep ...string) error
	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: store key %q", apperrors.ErrInvalidInput, key)
	}
	return nil
}

func keepSet(keep []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		out[k] = struct{}{}
	}
	return out
}

// Open returns the backend named by the configuration.
func Open(backend, storeDir, dbPath string) (Store, error) {
	switch backend {
	case "file", "":
		return NewFileStore(storeDir)
	case "sqlite":
		return NewSQLiteStore(dbPath)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", apperrors.ErrInvalidInput, backend)
	}
}
