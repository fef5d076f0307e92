// Package cache holds the TTL result caches that sit in front of providers.
package cache

import (
	"context"
)

// Cache is a TTL key-value store. Get never returns an entry older than the
// cache's TTL.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T) error
	Close() error
}

type NoOpCache[T any] struct{}

func NewNoOpCache[T any]() *NoOpCache[T] {
	return &NoOpCache[T]{}
}

func (c *NoOpCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	return zero, false
}

func (c *NoOpCache[T]) Set(ctx context.Context, key string, value T) error {
	return nil
}

func (c *NoOpCache[T]) Close() error {
	return nil
}
