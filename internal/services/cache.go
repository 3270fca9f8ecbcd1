package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DetailCache stores JSON snapshots of detail reads. Implemented by the redis package.
type DetailCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func orderCacheKey(id uint) string {
	return fmt.Sprintf("order:%d", id)
}

func accountCacheKey(id uint) string {
	return fmt.Sprintf("credit_account:%d", id)
}

// detailCache wraps an optional DetailCache. Cache failures are logged and never fail a request.
//
// Every invalidation bumps a per-key generation. A reader takes the generation
// before it queries the database and only keeps its snapshot when no
// invalidation happened in between, so a read that raced a commit is never
// left in the cache.
type detailCache struct {
	store DetailCache
	ttl   time.Duration
	log   *zap.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func newDetailCache(store DetailCache, ttl time.Duration, log *zap.Logger) *detailCache {
	return &detailCache{store: store, ttl: ttl, log: log, generations: map[string]uint64{}}
}

func (c *detailCache) enabled() bool {
	return c.store != nil && c.ttl > 0
}

func (c *detailCache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

func (c *detailCache) get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	hit, err := c.store.GetJSON(ctx, key, dest)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

// set stores value unless key was invalidated after generation gen was observed.
func (c *detailCache) set(ctx context.Context, key string, gen uint64, value interface{}) {
	if !c.enabled() || c.generation(key) != gen {
		return
	}
	if err := c.store.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if c.generation(key) != gen {
		c.delete(ctx, key)
	}
}

func (c *detailCache) invalidate(ctx context.Context, keys ...string) {
	if c.store == nil {
		return
	}
	c.mu.Lock()
	for _, key := range keys {
		c.generations[key]++
	}
	c.mu.Unlock()
	c.delete(ctx, keys...)
}

func (c *detailCache) delete(ctx context.Context, keys ...string) {
	if err := c.store.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		c.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
