package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jobportal/portal/internal/core/ports"
)

const defaultPrefix = "jobportal:session"

// SessionBackend keeps session keys in Redis so several processes on one
// machine (CLI and shell server) share a login.
// Key format: <prefix>:<key>. Keys never expire; the backend decides token
// lifetime.
type SessionBackend struct {
	client *redis.Client
	prefix string
}

// NewSessionBackend wraps client. An empty prefix uses "jobportal:session".
func NewSessionBackend(client *redis.Client, prefix string) *SessionBackend {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionBackend{client: client, prefix: prefix}
}

func (b *SessionBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, b.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (b *SessionBackend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, b.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (b *SessionBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (b *SessionBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *SessionBackend) Close() error {
	return b.client.Close()
}

func (b *SessionBackend) key(k string) string {
	return b.prefix + ":" + k
}

var _ ports.KeyValueStore = (*SessionBackend)(nil)
