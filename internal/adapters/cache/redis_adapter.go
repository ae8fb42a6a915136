package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/providers"
	redisclient "github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/clients/redis"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("key not found")

const scanBatch = 200

// RedisAdapter implements the CacheProvider interface using Redis
type RedisAdapter struct {
	client *redisclient.Client
}

var _ providers.CacheProvider = (*RedisAdapter)(nil)

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return result, nil
}

// Set stores a value; a non-positive expiration keeps the key until evicted
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	var expiration time.Duration
	if expirationSeconds > 0 {
		expiration = time.Duration(expirationSeconds) * time.Second
	}
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s in cache: %w", key, err)
	}
	return n > 0, nil
}

// DeletePrefix removes every key starting with prefix and returns how many were removed.
// Used to drop entries cached against an older table version.
func (a *RedisAdapter) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	rdb := a.client.Client()
	removed := 0
	iter := rdb.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := rdb.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, fmt.Errorf("failed to delete keys under %s: %w", prefix, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan keys under %s: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return removed, fmt.Errorf("failed to delete keys under %s: %w", prefix, err)
	}
	return removed, nil
}
