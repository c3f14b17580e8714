package vault

import (
	"context"
	"errors"
)

// ErrNoValue is returned by a Medium when no value exists under a key.
var ErrNoValue = errors.New("no value")

// Medium is the raw key-value storage a [Store] encrypts into. Implementations
// must treat Delete on an absent key as a no-op.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
