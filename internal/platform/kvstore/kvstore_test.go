package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "japa/internal/platform/errors"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	fileStore, err := NewFileStore(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "japa.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]Store{"file": fileStore, "sqlite": sqliteStore}
}

func TestStoreContract(t *testing.T) {
	t.Parallel()
	for name, store := range backends(t) {
		store := store
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Get(ctx, "progress"); !errors.Is(err, apperrors.ErrNotFound) {
				t.Fatalf("expected not found on empty store, got %v", err)
			}
			if err := store.Set(ctx, "progress", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := store.Set(ctx, "progress", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := store.Get(ctx, "progress")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `{"a":2}` {
				t.Fatalf("expected overwritten value, got %s", got)
			}
			if err := store.Delete(ctx, "progress"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := store.Delete(ctx, "progress"); err != nil {
				t.Fatalf("delete absent key should succeed: %v", err)
			}
			if _, err := store.Get(ctx, "progress"); !errors.Is(err, apperrors.ErrNotFound) {
				t.Fatalf("expected not found after delete, got %v", err)
			}
		})
	}
}

func TestStoreClearKeepsListedKeys(t *testing.T) {
	t.Parallel()
	for name, store := range backends(t) {
		store := store
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, key := range []string{"progress", "theme", "audioSettings"} {
				if err := store.Set(ctx, key, []byte(`"`+key+`"`)); err != nil {
					t.Fatalf("set %s: %v", key, err)
				}
			}
			if err := store.Clear(ctx, "theme"); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if _, err := store.Get(ctx, "theme"); err != nil {
				t.Fatalf("theme should survive clear: %v", err)
			}
			for _, key := range []string{"progress", "audioSettings"} {
				if _, err := store.Get(ctx, key); !errors.Is(err, apperrors.ErrNotFound) {
					t.Fatalf("expected %s to be cleared, got %v", key, err)
				}
			}
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("clear all: %v", err)
			}
			if _, err := store.Get(ctx, "theme"); !errors.Is(err, apperrors.ErrNotFound) {
				t.Fatalf("expected theme cleared, got %v", err)
			}
		})
	}
}

func TestStoreRejectsPathLikeKeys(t *testing.T) {
	t.Parallel()
	for name, store := range backends(t) {
		store := store
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", ".."} {
				if err := store.Set(context.Background(), key, []byte("x")); !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Fatalf("expected invalid input for key %q, got %v", key, err)
				}
			}
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fs, err := Open("file", filepath.Join(dir, "store"), filepath.Join(dir, "japa.db"))
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := fs.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", fs)
	}
	sq, err := Open("sqlite", filepath.Join(dir, "store"), filepath.Join(dir, "japa.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sq.Close()
	if _, ok := sq.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", sq)
	}
	if _, err := Open("redis", "", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown backend, got %v", err)
	}
}
