// Package pricing - Pricing context cache with TTL governance
// Computed contexts are keyed by a content hash of the contribution set.
// The cache is an optimization only; a miss always falls back to computing.
package pricing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"print-pricing/core/types"
	"print-pricing/internal/logging"
)

// CacheEntry is a cached pricing context with governance metadata
type CacheEntry struct {
	Key          string
	Value        types.PricingContext
	CreatedAt    time.Time
	ExpiresAt    time.Time
	AccessCount  int
	LastAccessed time.Time
}

// IsExpired checks if the entry has expired
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// CachePolicy defines cache behavior
type CachePolicy struct {
	// TTL for entries
	TTL time.Duration

	// Max entries; the least recently accessed entry is evicted beyond this
	MaxEntries int
}

// DefaultCachePolicy returns the default policy
func DefaultCachePolicy() *CachePolicy {
	return &CachePolicy{
		TTL:        5 * time.Minute,
		MaxEntries: 1024,
	}
}

// CacheStats contains cache statistics
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	Hits           int64
	Misses         int64
	Evictions      int64
}

// ContextCache is a side-table from contribution-set hash to computed context
type ContextCache struct {
	policy CachePolicy
	now    func() time.Time
	logger *zap.Logger

	entries map[string]*CacheEntry

	hits      int64
	misses    int64
	evictions int64

	mu sync.RWMutex
}

// NewContextCache creates a cache; a nil policy uses DefaultCachePolicy
func NewContextCache(policy *CachePolicy) *ContextCache {
	if policy == nil {
		policy = DefaultCachePolicy()
	}
	return &ContextCache{
		policy:  *policy,
		now:     time.Now,
		logger:  logging.Or(nil),
		entries: make(map[string]*CacheEntry),
	}
}

// WithClock overrides the time source
func (c *ContextCache) WithClock(now func() time.Time) *ContextCache {
	c.now = now
	return c
}

// WithLogger overrides the logger
func (c *ContextCache) WithLogger(l *zap.Logger) *ContextCache {
	c.logger = logging.Or(l)
	return c
}

// Get retrieves an entry if it has not expired
func (c *ContextCache) Get(key string) (types.PricingContext, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return types.PricingContext{}, false
	}
	if entry.IsExpired(now) {
		delete(c.entries, key)
		c.misses++
		return types.PricingContext{}, false
	}

	entry.AccessCount++
	entry.LastAccessed = now
	c.hits++
	return entry.Value, true
}

// Put stores an entry
func (c *ContextCache) Put(key string, value types.PricingContext) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.policy.MaxEntries > 0 && len(c.entries) >= c.policy.MaxEntries {
		c.evictOldestLocked()
	}

	c.entries[key] = &CacheEntry{
		Key:          key,
		Value:        value,
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.policy.TTL),
		LastAccessed: now,
	}
}

// Invalidate removes an entry
func (c *ContextCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry
func (c *ContextCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
}

// InvalidateExpired removes all expired entries
func (c *ContextCache) InvalidateExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, entry := range c.entries {
		if entry.IsExpired(now) {
			delete(c.entries, key)
			count++
		}
	}
	return count
}

// Len returns the number of entries, expired or not
func (c *ContextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics
func (c *ContextCache) Stats() *CacheStats {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &CacheStats{
		TotalEntries: len(c.entries),
		Hits:         c.hits,
		Misses:       c.misses,
		Evictions:    c.evictions,
	}
	for _, entry := range c.entries {
		if entry.IsExpired(now) {
			stats.ExpiredEntries++
		}
	}
	return stats
}

// StartJanitor evicts expired entries every interval until ctx is done.
// The returned channel is closed when the janitor exits.
func (c *ContextCache) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.InvalidateExpired(); n > 0 {
					c.logger.Debug("evicted expired pricing contexts", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}

func (c *ContextCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.LastAccessed.Before(oldest) {
			oldestKey = key
			oldest = entry.LastAccessed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.evictions++
	}
}
