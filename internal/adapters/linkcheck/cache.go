package linkcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"workshopsite/internal/domain"
)

const keyPrefix = "linkcheck:"

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores statuses as JSON under "linkcheck:<url>" with a TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) domain.LinkStatusCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, url string) (*domain.LinkStatus, error) {
	raw, err := c.client.Get(ctx, keyPrefix+url).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var s domain.LinkStatus
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode cached status: %w", err)
	}
	return &s, nil
}

func (c *redisCache) Set(ctx context.Context, s domain.LinkStatus) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+s.URL, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

type memoryCache struct {
	mu    sync.RWMutex
	items map[string]domain.LinkStatus
}

// NewMemoryCache returns a process-local cache. Entries never expire; the
// checker compares CheckedAt against its TTL.
func NewMemoryCache() domain.LinkStatusCache {
	return &memoryCache{items: make(map[string]domain.LinkStatus)}
}

func (c *memoryCache) Get(_ context.Context, url string) (*domain.LinkStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[url]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memoryCache) Set(_ context.Context, s domain.LinkStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[s.URL] = s
	return nil
}
