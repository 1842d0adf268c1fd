package cache

import (
	"GestaoClinica/database"
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = redis.Nil

type Cache struct {
	client *redis.Client
}

// NewCache creates a new Cache instance, ensuring that RedisClient is not nil.
func NewCache() (*Cache, error) {
	if database.RedisClient == nil {
		return nil, errors.New("Redis client is not initialized")
	}
	return &Cache{client: database.RedisClient}, nil
}

// Enabled reports whether the cache can serve requests. Repositories skip
// caching entirely when it returns false, which keeps the storage layer
// usable without Redis (tests, local development).
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// DeleteAll removes every key matching the pattern using SCAN so large
// keyspaces are not blocked.
func (c *Cache) DeleteAll(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if !c.Enabled() {
		return "", ErrMiss
	}
	return c.client.Get(ctx, key).Result()
}

func (c *Cache) DeleteBatch(ctx context.Context, keys ...string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
