package out

import "context"

// DocumentStore persists the encoded progress document under a single key.
type DocumentStore interface {
	// Load returns apperrors.ErrNotFound when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	// Clear removes the progress document; when everything is set it also
	// removes every other key except the preserved ones.
	Clear(ctx context.Context, everything bool) error
}

type BackupStore interface {
	Write(ctx context.Context, dir, name string, payload []byte) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
}
