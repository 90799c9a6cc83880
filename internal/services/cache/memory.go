package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache implements an in-memory cache with TTL expiry and a byte cap
type MemoryCache struct {
	mu          sync.RWMutex
	items       map[string]*cacheItem
	maxBytes    int64
	currentSize int64
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

type cacheItem struct {
	value  []byte
	expiry time.Time
	size   int64
}

// NewMemoryCache creates a new in-memory cache capped at maxSizeMB
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	mc := &MemoryCache{
		items:    make(map[string]*cacheItem),
		maxBytes: maxSizeMB * 1024 * 1024,
		stopCh:   make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.cleanupExpired()

	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, exists := mc.items[key]
	mc.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiry) {
		_ = mc.Delete(ctx, key)
		return nil, false
	}
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}

	size := int64(len(key) + len(value))
	mc.makeRoom(size)

	item := &cacheItem{
		value:  value,
		expiry: time.Now().Add(ttl),
		size:   size,
	}

	mc.mu.Lock()
	if oldItem, exists := mc.items[key]; exists {
		atomic.AddInt64(&mc.currentSize, -oldItem.size)
	}
	mc.items[key] = item
	atomic.AddInt64(&mc.currentSize, size)
	mc.mu.Unlock()

	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	if item, exists := mc.items[key]; exists {
		delete(mc.items, key)
		atomic.AddInt64(&mc.currentSize, -item.size)
	}
	mc.mu.Unlock()
	return nil
}

// DeletePrefix removes all values whose key starts with the prefix
func (mc *MemoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	mc.mu.Lock()
	for key, item := range mc.items {
		if strings.HasPrefix(key, prefix) {
			delete(mc.items, key)
			atomic.AddInt64(&mc.currentSize, -item.size)
		}
	}
	mc.mu.Unlock()
	return nil
}

// Clear removes all values from the cache
func (mc *MemoryCache) Clear(ctx context.Context) error {
	mc.mu.Lock()
	mc.items = make(map[string]*cacheItem)
	atomic.StoreInt64(&mc.currentSize, 0)
	mc.mu.Unlock()
	return nil
}

// Stop gracefully shuts down the cache
func (mc *MemoryCache) Stop() {
	close(mc.stopCh)
	mc.wg.Wait()
}

func (mc *MemoryCache) cleanupExpired() {
	defer mc.wg.Done()
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.removeExpired()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) removeExpired() {
	now := time.Now()
	mc.mu.Lock()
	for key, item := range mc.items {
		if now.After(item.expiry) {
			delete(mc.items, key)
			atomic.AddInt64(&mc.currentSize, -item.size)
		}
	}
	mc.mu.Unlock()
}

// makeRoom evicts entries until sizeNeeded fits under the cap
func (mc *MemoryCache) makeRoom(sizeNeeded int64) {
	currentSize := atomic.LoadInt64(&mc.currentSize)
	if mc.maxBytes <= 0 || currentSize+sizeNeeded <= mc.maxBytes {
		return
	}

	mc.removeExpired()

	currentSize = atomic.LoadInt64(&mc.currentSize)
	if currentSize+sizeNeeded > mc.maxBytes {
		mc.mu.Lock()
		targetSize := mc.maxBytes - sizeNeeded
		for key, item := range mc.items {
			if atomic.LoadInt64(&mc.currentSize) <= targetSize {
				break
			}
			delete(mc.items, key)
			atomic.AddInt64(&mc.currentSize, -item.size)
		}
		mc.mu.Unlock()
	}
}
