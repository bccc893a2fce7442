// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go provides a Valkey-backed cache for third-party catalog payloads
// (the Google Fonts webfont list). Instances share the fetched list so a
// restart or a second replica does not spend another API call.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// catalogKeyPrefix is the Valkey key prefix for cached catalogs.
	catalogKeyPrefix = "catalog:"

	// DefaultCatalogTTL is how long a fetched catalog stays cached.
	DefaultCatalogTTL = 6 * time.Hour
)

// CatalogCache stores raw catalog payloads in Valkey.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Errors are logged and reported as a miss.
func (c *CatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit", "key", key)
	return val, true
}

// Set stores a payload with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, catalogKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single catalog.
func (c *CatalogCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, catalogKeyPrefix+key).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached catalog by scanning for the prefix.
func (c *CatalogCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("catalog cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("catalog cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("catalog cache cleared", "deleted", deleted)
	}
}

// FontsKey returns the cache key for the webfont list in the given sort order.
func FontsKey(sort string) string {
	return "fonts:" + sort
}
