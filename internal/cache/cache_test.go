package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type payload struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

func TestMemoryCache_GetWithinTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[payload](time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	want := payload{IDs: []string{"h1", "h2"}, Count: 2}
	if err := c.Set(ctx, "hotels?keyword=goa", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock.Advance(59 * time.Minute)
	got, ok := c.Get(ctx, "hotels?keyword=goa")
	if !ok {
		t.Fatal("expected hit within ttl")
	}
	if got.Count != 2 || len(got.IDs) != 2 || got.IDs[0] != "h1" {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMemoryCache_ExpiredEntryIsNotResurrected(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[string](time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v")

	clock.Advance(time.Hour)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry exactly at ttl should still be served")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after ttl")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted on lookup, len = %d", c.Len())
	}

	clock.Advance(-2 * time.Hour)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("evicted entry came back")
	}
}

func TestMemoryCache_SetRefreshesStoredAt(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[int](time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	_ = c.Set(ctx, "k", 1)
	clock.Advance(50 * time.Second)
	_ = c.Set(ctx, "k", 2)
	clock.Advance(50 * time.Second)

	got, ok := c.Get(ctx, "k")
	if !ok || got != 2 {
		t.Fatalf("Get = %d, %v; want 2, true", got, ok)
	}
}

func TestMemoryCache_LRUBound(t *testing.T) {
	c := NewMemoryCache[int](time.Hour, WithMaxEntries(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = c.Set(ctx, fmt.Sprintf("k%d", i), i)
	}
	// k0 becomes most recently used, so k1 is the eviction victim.
	if _, ok := c.Get(ctx, "k0"); !ok {
		t.Fatal("k0 missing")
	}
	_ = c.Set(ctx, "k3", 3)

	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	if _, ok := c.Get(ctx, "k1"); ok {
		t.Error("k1 should have been evicted")
	}
	for _, k := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(ctx, k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[int](time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	_ = c.Set(ctx, "old1", 1)
	_ = c.Set(ctx, "old2", 2)
	clock.Advance(45 * time.Second)
	_ = c.Set(ctx, "fresh", 3)
	clock.Advance(30 * time.Second)

	if removed := c.Sweep(); removed != 2 {
		t.Errorf("Sweep removed %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache[int](time.Hour, WithMaxEntries(50))
	c.StartSweeper(time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n+j)%60)
				_ = c.Set(ctx, key, j)
				c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("len = %d exceeds bound", c.Len())
	}
	// Close is idempotent.
	_ = c.Close()
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache[string]()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("noop cache should always miss")
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisCache[payload](client, time.Hour, "offers:")
	ctx := context.Background()

	want := payload{IDs: []string{"b1"}, Count: 1}
	if err := c.Set(ctx, "buses?destination=pune&origin=mumbai", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(ctx, "buses?destination=pune&origin=mumbai")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Count != 1 || got.IDs[0] != "b1" {
		t.Errorf("got %+v", got)
	}

	keys := mr.Keys()
	if len(keys) != 1 || len(keys[0]) != len("offers:")+64 {
		t.Errorf("unexpected redis keys %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	if _, ok := c.Get(ctx, "buses?destination=pune&origin=mumbai"); ok {
		t.Error("expected miss after ttl")
	}
}

func TestRedisCache_UndecodableValueIsMiss(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisCache[payload](client, time.Hour, "offers:")

	_ = c.Set(context.Background(), "k", payload{Count: 1})
	for _, k := range mr.Keys() {
		_ = mr.Set(k, "not json")
	}

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("corrupt value should be a miss")
	}
}

func TestRedisCache_ServerDownIsMiss(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisCache[string](client, time.Hour, "offers:")
	mr.Close()

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("expected miss when redis is unavailable")
	}
	if err := c.Set(context.Background(), "k", "v"); err == nil {
		t.Error("expected Set error when redis is unavailable")
	}
}
