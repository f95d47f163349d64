// Package redis implements core.SessionCache on a Redis backend, for
// deployments where the session cache must survive restarts or be
// shared across instances.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tenonkit/tenon/core"
)

const defaultTTL = 60 * time.Second

type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ core.SessionCache = (*Cache)(nil)

func New(client *redis.Client, cfg core.CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		client: client,
		prefix: "tenon:session:",
		ttl:    ttl,
	}
}

func (c *Cache) key(tokenHash string) string {
	return c.prefix + tokenHash
}

func (c *Cache) Get(ctx context.Context, tokenHash string) (*core.SessionData, error) {
	val, err := c.client.Get(ctx, c.key(tokenHash)).Result()
	if err == redis.Nil {
		return nil, core.ErrCacheNotFound
	}
	if err != nil {
		return nil, err
	}

	var data core.SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

func (c *Cache) Set(ctx context.Context, tokenHash string, data *core.SessionData) error {
	// Never cache past the session's own expiry.
	ttl := c.ttl
	if data.Session != nil && !data.Session.ExpiresAt.IsZero() {
		if until := time.Until(data.Session.ExpiresAt); until < ttl {
			ttl = until
		}
	}
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.client.Set(ctx, c.key(tokenHash), raw, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, c.key(tokenHash)).Err()
}

// Clear drops every cached session under this cache's prefix. SCAN
// keeps it safe on shared instances.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
