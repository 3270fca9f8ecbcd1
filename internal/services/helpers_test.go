package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"restaurant_pos/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	mu      sync.Mutex
	entries map[uint]catalog.Entry
	err     error
	calls   int
}

func newFakeCatalog(entries ...catalog.Entry) *fakeCatalog {
	f := &fakeCatalog{entries: map[uint]catalog.Entry{}}
	for _, e := range entries {
		f.entries[e.ProductID] = e
	}
	return f
}

func (f *fakeCatalog) Lookup(ctx context.Context, productID uint) (catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return catalog.Entry{}, f.err
	}
	entry, ok := f.entries[productID]
	if !ok {
		return catalog.Entry{}, catalog.ErrNotFound
	}
	return entry, nil
}

func entry(id uint, name, price string, available bool) catalog.Entry {
	return catalog.Entry{ProductID: id, Name: name, Price: decimal.RequireFromString(price), Available: available}
}

type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	hits    int
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
		c.deletes = append(c.deletes, key)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
