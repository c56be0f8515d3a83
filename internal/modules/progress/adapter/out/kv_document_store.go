package out

import (
	"context"

	progressout "japa/internal/modules/progress/port/out"
	"japa/internal/platform/kvstore"
)

// DocumentKey is the storage key of the progress document.
const DocumentKey = "progress"

type KVDocumentStore struct {
	kv       kvstore.Store
	preserve []string
}

// NewKVDocumentStore stores the document under DocumentKey. Keys in preserve
// survive a full clear.
func NewKVDocumentStore(kv kvstore.Store, preserve ...string) progressout.DocumentStore {
	return &KVDocumentStore{kv: kv, preserve: preserve}
}

func (s *KVDocumentStore) Load(ctx context.Context) ([]byte, error) {
	return s.kv.Get(ctx, DocumentKey)
}

func (s *KVDocumentStore) Save(ctx context.Context, payload []byte) error {
	return s.kv.Set(ctx, DocumentKey, payload)
}

func (s *KVDocumentStore) Clear(ctx context.Context, everything bool) error {
	if everything {
		return s.kv.Clear(ctx, s.preserve...)
	}
	return s.kv.Delete(ctx, DocumentKey)
}
