package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const DefaultMaxEntries = 10000

type entry[T any] struct {
	key      string
	value    T
	storedAt time.Time
}

// MemoryCache is an in-process TTL cache with an LRU bound. Expired entries
// are evicted lazily on lookup and, when a sweeper runs, periodically.
type MemoryCache[T any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	items      map[string]*list.Element
	order      *list.List
	now        func() time.Time

	stopOnce sync.Once
	done     chan struct{}
}

type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxEntries int
	now        func() time.Time
}

func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) { o.maxEntries = n }
}

func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) { o.now = now }
}

func NewMemoryCache[T any](ttl time.Duration, opts ...MemoryOption) *MemoryCache[T] {
	o := memoryOptions{maxEntries: DefaultMaxEntries, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryCache[T]{
		ttl:        ttl,
		maxEntries: o.maxEntries,
		items:      make(map[string]*list.Element),
		order:      list.New(),
		now:        o.now,
		done:       make(chan struct{}),
	}
}

func (c *MemoryCache[T]) Get(_ context.Context, key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if c.expired(e) {
		c.removeElement(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key. Concurrent writers to the same key resolve
// last-write-wins.
func (c *MemoryCache[T]) Set(_ context.Context, key string, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[T])
		e.value = value
		e.storedAt = now
		c.order.MoveToFront(el)
		return nil
	}

	el := c.order.PushFront(&entry[T]{key: key, value: value, storedAt: now})
	c.items[key] = el

	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
	return nil
}

func (c *MemoryCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *MemoryCache[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry[T])) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// StartSweeper runs Sweep every interval until Close is called.
func (c *MemoryCache[T]) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-c.done:
				return
			}
		}
	}()
}

func (c *MemoryCache[T]) Close() error {
	c.stopOnce.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache[T]) expired(e *entry[T]) bool {
	return c.now().Sub(e.storedAt) > c.ttl
}

func (c *MemoryCache[T]) removeElement(el *list.Element) {
	e := el.Value.(*entry[T])
	delete(c.items, e.key)
	c.order.Remove(el)
}
