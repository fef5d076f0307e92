package cache

import (
	"context"

	"github.com/dharmasatrya/tripease/internal/obs"
)

// Instrumented counts hits and misses of the wrapped cache under namespace.
type Instrumented[T any] struct {
	Cache[T]
	metrics   *obs.Metrics
	namespace string
}

func NewInstrumented[T any](c Cache[T], metrics *obs.Metrics, namespace string) *Instrumented[T] {
	return &Instrumented[T]{Cache: c, metrics: metrics, namespace: namespace}
}

func (c *Instrumented[T]) Get(ctx context.Context, key string) (T, bool) {
	v, ok := c.Cache.Get(ctx, key)
	c.metrics.IncCacheLookup(c.namespace, ok)
	return v, ok
}
