// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/credible-research/pkg/types"
)

// cacheKeyPrefix namespaces result keys in a shared Redis.
const cacheKeyPrefix = "credible-research:"

// Cache stores raw provider responses. Get reports a miss with ok == false.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached serves repeated queries from a Cache. Cache failures are logged and
// fall through to the provider; they never fail the search.
type Cached struct {
	Next   Provider
	Cache  Cache
	TTL    time.Duration
	Logger *slog.Logger
}

// NewCached wraps next with cache.
func NewCached(next Provider, cache Cache, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{Next: next, Cache: cache, TTL: ttl, Logger: logger}
}

// Search implements Searcher.
func (c *Cached) Search(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	var out []types.SearchResult
	err := lookup(ctx, c, cacheKey("search", query, n), &out, func() (any, error) {
		res, err := c.Next.Search(ctx, query, n)
		out = res
		return res, err
	})
	return out, err
}

// News implements NewsSearcher.
func (c *Cached) News(ctx context.Context, query string, n int) ([]types.NewsResult, error) {
	var out []types.NewsResult
	err := lookup(ctx, c, cacheKey("news", query, n), &out, func() (any, error) {
		res, err := c.Next.News(ctx, query, n)
		out = res
		return res, err
	})
	return out, err
}

// lookup decodes a hit into dst, or calls fetch and stores its result.
// Errors from fetch are returned and nothing is stored.
func lookup(ctx context.Context, c *Cached, key string, dst any, fetch func() (any, error)) error {
	if raw, ok, err := c.Cache.Get(ctx, key); err != nil {
		c.Logger.Warn("cache get failed", "key", key, "err", err)
	} else if ok {
		if err := json.Unmarshal(raw, dst); err == nil {
			c.Logger.Debug("cache hit", "key", key)
			return nil
		}
		c.Logger.Warn("discarding unreadable cache entry", "key", key)
	}

	res, err := fetch()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil
	}
	if err := c.Cache.Set(ctx, key, raw, c.TTL); err != nil {
		c.Logger.Warn("cache set failed", "key", key, "err", err)
	}
	return nil
}

func cacheKey(kind, query string, n int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query)) + "\x00" + strconv.Itoa(n)))
	return cacheKeyPrefix + kind + ":" + hex.EncodeToString(sum[:])
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis at url (redis://host:port/db) and
// verifies the connection with PING.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
