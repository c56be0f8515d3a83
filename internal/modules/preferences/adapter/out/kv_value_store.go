package out

import (
	"context"

	preferencesout "japa/internal/modules/preferences/port/out"
	"japa/internal/platform/kvstore"
)

type KVValueStore struct {
	kv kvstore.Store
}

func NewKVValueStore(kv kvstore.Store) preferencesout.ValueStore {
	return KVValueStore{kv: kv}
}

func (s KVValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.kv.Get(ctx, key)
}

func (s KVValueStore) Set(ctx context.Context, key string, value []byte) error {
	return s.kv.Set(ctx, key, value)
}
