package pricing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-pricing/core/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestCacheHitAndMiss(t *testing.T) {
	c := NewContextCache(nil)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", types.PricingContext{FinalPrice: 42})
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42.0, v.FinalPrice)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCacheTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewContextCache(&CachePolicy{TTL: time.Minute, MaxEntries: 10}).WithClock(clock.Now)

	c.Put("a", types.PricingContext{FinalPrice: 1})
	clock.Advance(30 * time.Second)
	c.Put("b", types.PricingContext{FinalPrice: 2})
	clock.Advance(45 * time.Second)

	assert.Equal(t, 1, c.Stats().ExpiredEntries)
	assert.Equal(t, 1, c.InvalidateExpired())

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewContextCache(&CachePolicy{TTL: time.Hour, MaxEntries: 2}).WithClock(clock.Now)

	c.Put("a", types.PricingContext{})
	clock.Advance(time.Second)
	c.Put("b", types.PricingContext{})
	clock.Advance(time.Second)
	_, _ = c.Get("a")
	clock.Advance(time.Second)
	c.Put("c", types.PricingContext{})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestJanitorEvictsExpiredEntries(t *testing.T) {
	c := NewContextCache(&CachePolicy{TTL: time.Millisecond, MaxEntries: 10})
	c.Put("a", types.PricingContext{})

	ctx, cancel := context.WithCancel(context.Background())
	done := c.StartJanitor(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitorDisabledForZeroInterval(t *testing.T) {
	c := NewContextCache(nil)
	done := c.StartJanitor(context.Background(), 0)
	_, open := <-done
	assert.False(t, open)
}
