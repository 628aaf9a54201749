package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"optionlab/internal/models"
)

// Cache keeps recently fetched quotes.
type Cache interface {
	Get(ctx context.Context, symbol string) (*models.Quote, bool, error)
	Set(ctx context.Context, q *models.Quote, ttl time.Duration) error
	Close() error
}

func cacheKey(symbol string) string {
	return "optionlab:quote:" + strings.ToUpper(symbol)
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	quote     models.Quote
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached quote if it has not expired.
func (c *MemoryCache) Get(_ context.Context, symbol string) (*models.Quote, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(symbol)]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	q := entry.quote
	return &q, true, nil
}

// Set stores q for ttl. A non-positive ttl is a no-op.
func (c *MemoryCache) Set(_ context.Context, q *models.Quote, ttl time.Duration) error {
	if q == nil || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(q.Symbol)] = memoryEntry{quote: *q, expiresAt: c.now().Add(ttl)}
	return nil
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

// RedisCache stores quotes in Redis so several optionlab processes share them.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at url, e.g. redis://localhost:6379/0.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get returns the cached quote, if any.
func (c *RedisCache) Get(ctx context.Context, symbol string) (*models.Quote, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var q models.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return &q, true, nil
}

// Set stores q with an expiry of ttl.
func (c *RedisCache) Set(ctx context.Context, q *models.Quote, ttl time.Duration) error {
	if q == nil || ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(q.Symbol), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
