package csrf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores session secrets in Redis under "<prefix>:csrf:<id>"
// with the session TTL, so several server instances share one view of the
// sessions.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a RedisBackend.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) key(sessionID string) string {
	return fmt.Sprintf("%s:csrf:%s", b.prefix, sessionID)
}

func (b *RedisBackend) Get(ctx context.Context, sessionID string) (string, error) {
	secret, err := b.client.Get(ctx, b.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", b.key(sessionID), err)
	}
	return secret, nil
}

func (b *RedisBackend) Set(ctx context.Context, sessionID, secret string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.key(sessionID), secret, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key(sessionID), err)
	}
	return nil
}

// Ping checks the Redis connection.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
