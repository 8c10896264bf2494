package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/nutricart/backend/internal/domain"
)

// cacheItem is a single stored entry. Payloads are kept serialized so
// readers always get an independent copy and a corrupt entry is
// detectable on read.
type cacheItem struct {
	Data       []byte
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory result cache with TTL support.
// It is constructed once at process start and passed by handle to every
// caller; concurrent writers to the same key are last-write-wins.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	stop  chan struct{}
}

// NewMemoryCache creates a new in-memory cache. Expired entries are also
// swept in the background every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	c := &MemoryCache{
		data: make(map[string]cacheItem),
		stop: make(chan struct{}),
	}
	go c.cleanupExpired(cleanupInterval)
	return c
}

// Get retrieves a payload. A stale or undecodable entry is deleted and
// reported as a miss.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.CachedPayload, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(item.Expiration) {
		c.mutex.Lock()
		delete(c.data, key)
		c.mutex.Unlock()
		return nil, domain.ErrCacheMiss
	}

	var payload domain.CachedPayload
	if err := json.Unmarshal(item.Data, &payload); err != nil {
		c.mutex.Lock()
		delete(c.data, key)
		c.mutex.Unlock()
		return nil, domain.ErrCacheCorrupt
	}
	return &payload, nil
}

// Set stores a payload with TTL, replacing any prior entry under the key.
func (c *MemoryCache) Set(ctx context.Context, key string, payload *domain.CachedPayload, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = cacheItem{
		Data:       data,
		Expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
	return nil
}

// Entries returns every non-expired payload whose key carries the given
// kind prefix, skipping entries that fail to decode.
func (c *MemoryCache) Entries(ctx context.Context, kind string) ([]*domain.CachedPayload, error) {
	prefix := kind + ":"
	now := time.Now()

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var out []*domain.CachedPayload
	for key, item := range c.data {
		if !strings.HasPrefix(key, prefix) || now.After(item.Expiration) {
			continue
		}
		var payload domain.CachedPayload
		if err := json.Unmarshal(item.Data, &payload); err != nil {
			continue
		}
		out = append(out, &payload)
	}
	return out, nil
}

// Size returns the current number of entries (for debugging/monitoring).
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the background sweeper.
func (c *MemoryCache) Close() {
	close(c.stop)
}

// cleanupExpired removes expired entries periodically.
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mutex.Lock()
			now := time.Now()
			for key, item := range c.data {
				if now.After(item.Expiration) {
					delete(c.data, key)
				}
			}
			c.mutex.Unlock()
		}
	}
}
