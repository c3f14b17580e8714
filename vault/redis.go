package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisMedium stores ciphertext in Redis under a key prefix. It is meant for
// deployments where the admin process restarts but a local Redis survives,
// keeping the session warm across restarts.
type RedisMedium struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisMedium creates a Redis-backed medium. prefix namespaces the keys;
// an empty prefix defaults to "av".
func NewRedisMedium(client redis.UniversalClient, prefix string) *RedisMedium {
	if prefix == "" {
		prefix = "av"
	}
	return &RedisMedium{redis: client, prefix: prefix}
}

func (m *RedisMedium) key(key string) string {
	return m.prefix + ":" + key
}

// Get returns the stored value, [ErrNoValue] when absent, or
// [ErrRedisUnavailable] on transport failure.
func (m *RedisMedium) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := m.redis.Get(ctx, m.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoValue
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return data, nil
}

// Set stores value under key with no expiration. The session envelope is
// cleared explicitly on logout, not by TTL.
func (m *RedisMedium) Set(ctx context.Context, key string, value []byte) error {
	if err := m.redis.Set(ctx, m.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *RedisMedium) Delete(ctx context.Context, key string) error {
	if err := m.redis.Del(ctx, m.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
