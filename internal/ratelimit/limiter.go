// Package ratelimit keeps one token-bucket limiter per upstream provider.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type ProviderLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Limit
}

// Limit is a steady rate plus burst. A non-positive RequestsPerSecond means
// unlimited.
type Limit struct {
	RequestsPerSecond float64
	Burst             int
}

func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

func NewProviderLimiter(defaults Limit) *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

func NewProviderLimiterWithDefaults() *ProviderLimiter {
	return NewProviderLimiter(DefaultLimit())
}

func (p *ProviderLimiter) limiter(provider string) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[provider]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists = p.limiters[provider]; exists {
		return limiter
	}

	limiter = newLimiter(p.defaults)
	p.limiters[provider] = limiter
	return limiter
}

// Configure overrides the limit for one provider. A zero Limit keeps the
// defaults.
func (p *ProviderLimiter) Configure(provider string, l Limit) {
	if l.RequestsPerSecond == 0 && l.Burst == 0 {
		return
	}
	if l.Burst <= 0 {
		l.Burst = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.limiters[provider] = newLimiter(l)
}

// Wait blocks until provider may send another request or ctx is done. A nil
// limiter never blocks.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	if p == nil {
		return nil
	}
	return p.limiter(provider).Wait(ctx)
}

func newLimiter(l Limit) *rate.Limiter {
	if l.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(l.RequestsPerSecond), l.Burst)
}
