package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	progressout "japa/internal/modules/progress/port/out"
	apperrors "japa/internal/platform/errors"
)

type FileBackupStore struct{}

func NewFileBackupStore() progressout.BackupStore {
	return FileBackupStore{}
}

func (FileBackupStore) Write(_ context.Context, dir, name string, payload []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func (FileBackupStore) Read(_ context.Context, path string) ([]byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return payload, nil
}
