package quotecache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "quote_AAPL", Key(KindQuote, "AAPL"))
	assert.Equal(t, "indian_search_bank", Key(KindRegionalSearch, "bank"))
	assert.NotEqual(t, Key(KindQuote, "aapl"), Key(KindQuote, "AAPL"))
}

func TestCache_TTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)}
	cache := New[string](60*time.Second, clock.Now)

	cache.Put("quote_AAPL", "q1")

	got, ok := cache.Get("quote_AAPL")
	assert.True(t, ok)
	assert.Equal(t, "q1", got)

	clock.Advance(60*time.Second - time.Millisecond)
	_, ok = cache.Get("quote_AAPL")
	assert.True(t, ok, "entry should still be fresh just before the TTL")

	clock.Advance(2 * time.Millisecond)
	got, ok = cache.Get("quote_AAPL")
	assert.False(t, ok, "entry should be stale after the TTL")
	assert.Equal(t, "", got)
}

func TestCache_ExactTTLIsStale(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	cache := New[int](time.Second, clock.Now)

	cache.Put("k", 1)
	clock.Advance(time.Second)

	_, ok := cache.Get("k")
	assert.False(t, ok)
}

func TestCache_PutOverwritesAndRestamps(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	cache := New[int](10*time.Second, clock.Now)

	cache.Put("k", 1)
	clock.Advance(8 * time.Second)
	cache.Put("k", 2)
	clock.Advance(8 * time.Second)

	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Miss(t *testing.T) {
	cache := New[int](time.Minute, nil)
	_, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, cache.TTL())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := New[int](time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("quote_%d", i%5)
			cache.Put(key, i)
			cache.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Len())
}
