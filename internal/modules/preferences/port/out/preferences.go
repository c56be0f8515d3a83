package out

import "context"

// ValueStore reads and writes one raw preference value by key.
type ValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
