// Package cache provides the response cache keyed by request identity,
// with a Redis backend for deployments and an in-process fallback.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/metamui-network/metascan-api/internal/logging"
)

// Key derives the cache key for a request: the method and the full URL,
// query string included, so every parameter combination caches separately.
func Key(method, url string) string {
	return fmt.Sprintf("%s-%s", method, url)
}

// Compute produces the value to cache on a miss.
type Compute func(ctx context.Context) ([]byte, error)

// Cache is a read-through byte cache. GetOrCompute returns the cached
// value when the key is live, otherwise it runs compute and stores the
// result for ttl. Concurrent misses on the same key may each run compute;
// duplicated work is accepted in exchange for never serializing readers.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute Compute) (value []byte, hit bool, err error)
	Invalidate(ctx context.Context, key string) error
}

// Redis backs the cache with a shared Redis instance.
type Redis struct {
	client *redis.Client
	log    *logging.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, log *logging.Logger) *Redis {
	return &Redis{client: client, log: log}
}

// GetOrCompute implements Cache. A Redis read failure is treated as a
// miss; a write failure after compute is logged and the fresh value is
// still returned, so a degraded cache never fails a request.
func (r *Redis) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute Compute) ([]byte, bool, error) {
	cached, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		return cached, true, nil
	}
	if err != redis.Nil {
		r.log.WithError(err).WithField("key", key).Warn("cache read failed, recomputing")
	}
	value, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return value, false, nil
}

// Invalidate implements Cache.
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process cache used when Redis is not configured and in
// tests. Expired entries are reaped by a background janitor; reads also
// check expiry so a stopped janitor never serves stale data.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	janitor *cron.Cron
}

// NewMemory creates an in-process cache and starts its sweep schedule.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	m.janitor = cron.New()
	m.janitor.AddFunc("@every 1m", m.sweep)
	m.janitor.Start()
	return m
}

// GetOrCompute implements Cache.
func (m *Memory) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute Compute) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if ok && m.now().Before(entry.expiresAt) {
		return entry.value, true, nil
	}
	value, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return value, false, nil
}

// Invalidate implements Cache.
func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close stops the janitor.
func (m *Memory) Close() {
	m.janitor.Stop()
}

func (m *Memory) sweep() {
	now := m.now()
	m.mu.Lock()
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}
