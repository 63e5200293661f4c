package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kestrelops/userd/pkg/store"
)

// Cache is a Redis-backed read-through cache for user lookups. It is
// strictly optional: any cache failure degrades to a database read.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis and returns a user cache.
func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// NewCacheWithClient wraps an existing Redis client. Used by tests.
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetUser retrieves a user from cache. A nil user with nil error is a miss.
func (c *Cache) GetUser(ctx context.Context, id int64) (*store.User, error) {
	key := userKey(id)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Cache miss
	} else if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var u store.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		// If unmarshal fails, delete corrupt data
		c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

// SetUser stores a user in cache.
func (c *Cache) SetUser(ctx context.Context, u *store.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return c.client.Set(ctx, userKey(u.ID), data, c.ttl).Err()
}

// InvalidateUser removes a user from cache.
func (c *Cache) InvalidateUser(ctx context.Context, id int64) error {
	return c.client.Del(ctx, userKey(id)).Err()
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Client exposes the underlying Redis client for health probes.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
