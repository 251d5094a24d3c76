package trending

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"tushle/internal/config"
	"tushle/internal/logging"
)

// Cache holds ranked results per field between refreshes.
type Cache interface {
	Get(ctx context.Context, field string) (*Result, bool)
	Set(ctx context.Context, field string, result *Result)
}

// NewCache returns a Redis-backed cache when an address is configured and
// reachable, falling back to an in-process cache otherwise.
func NewCache(cfg *config.Config, logger *slog.Logger) Cache {
	ttl := time.Duration(cfg.Redis.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if cfg.Redis.Addr == "" {
		return NewMemoryCacheTTL(ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.WithComponent(logger, "trending").Warn("redis unreachable, using in-process cache",
			logging.String("addr", cfg.Redis.Addr),
			logging.Error(err))
		_ = client.Close()
		return NewMemoryCacheTTL(ttl)
	}
	return &redisCache{client: client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func cacheKey(field string) string {
	return "tushle:trending:" + field
}

func (c *redisCache) Get(ctx context.Context, field string) (*Result, bool) {
	data, err := c.client.Get(ctx, cacheKey(field)).Bytes()
	if err != nil {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *redisCache) Set(ctx context.Context, field string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(field), data, c.ttl).Err()
}

type memoryEntry struct {
	result  *Result
	expires time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryCache builds an in-process cache with a 30 minute TTL.
func NewMemoryCache() Cache {
	return NewMemoryCacheTTL(30 * time.Minute)
}

// NewMemoryCacheTTL builds an in-process cache with a custom TTL.
func NewMemoryCacheTTL(ttl time.Duration) Cache {
	return &memoryCache{entries: map[string]memoryEntry{}, ttl: ttl}
}

func (c *memoryCache) Get(_ context.Context, field string) (*Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[field]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.result, true
}

func (c *memoryCache) Set(_ context.Context, field string, result *Result) {
	c.mu.Lock()
	c.entries[field] = memoryEntry{result: result, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
