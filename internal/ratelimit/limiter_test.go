package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestProviderLimiter_BurstThenBlocks(t *testing.T) {
	l := NewProviderLimiter(Limit{RequestsPerSecond: 1, Burst: 2})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Wait(ctx, "hotels"); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "hotels"); err == nil {
		t.Error("expected third request to exceed the deadline")
	}
}

func TestProviderLimiter_PerProvider(t *testing.T) {
	l := NewProviderLimiter(Limit{RequestsPerSecond: 1, Burst: 1})
	ctx := context.Background()

	if err := l.Wait(ctx, "hotels"); err != nil {
		t.Fatal(err)
	}
	if err := l.Wait(ctx, "buses"); err != nil {
		t.Fatalf("buses should have its own bucket: %v", err)
	}
}

func TestProviderLimiter_Configure(t *testing.T) {
	l := NewProviderLimiter(Limit{RequestsPerSecond: 1, Burst: 1})
	l.Configure("fast", Limit{RequestsPerSecond: 0.001, Burst: 5})
	l.Configure("unlimited", Limit{RequestsPerSecond: -1})
	l.Configure("untouched", Limit{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx, "fast"); err != nil {
			t.Fatalf("fast %d: %v", i, err)
		}
	}
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx, "unlimited"); err != nil {
			t.Fatalf("unlimited %d: %v", i, err)
		}
	}
	if err := l.Wait(ctx, "untouched"); err != nil {
		t.Fatal(err)
	}
	if err := l.Wait(ctx, "untouched"); err == nil {
		t.Error("zero limit should keep the default of one request per second")
	}
}

func TestProviderLimiter_NilNeverBlocks(t *testing.T) {
	var l *ProviderLimiter
	if err := l.Wait(context.Background(), "any"); err != nil {
		t.Fatal(err)
	}
}
