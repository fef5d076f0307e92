// Package aggregator fans a search out to the local catalog and every
// selected provider, then merges what comes back.
package aggregator

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/tripease/internal/catalog"
	"github.com/dharmasatrya/tripease/internal/logger"
	"github.com/dharmasatrya/tripease/internal/mockgen"
	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/normalizer"
	"github.com/dharmasatrya/tripease/internal/obs"
	"github.com/dharmasatrya/tripease/internal/providers"
)

type Config struct {
	// Timeout bounds the whole search, on top of any caller deadline.
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	// LocalLimit caps how many catalog records join a search.
	LocalLimit int
}

func DefaultConfig() Config {
	return Config{
		Timeout:    8 * time.Second,
		MaxRetries: 1,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
		LocalLimit: catalog.MaxLimit,
	}
}

type Aggregator struct {
	providers []providers.Provider
	catalog   catalog.Store
	config    Config
	log       *logger.Logger
	metrics   *obs.Metrics
	mock      func(models.SearchQuery) []models.Offer
}

type Option func(*Aggregator)

func WithLogger(log *logger.Logger) Option {
	return func(a *Aggregator) { a.log = log }
}

func WithMetrics(m *obs.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

type Result struct {
	Offers             []models.Offer
	ProvidersQueried   int
	ProvidersSucceeded int
	ProvidersFailed    int
	FailedProviders    []string
	LocalCount         int
	MockFallback       bool
}

type searchOptions struct {
	localOnly bool
}

type SearchOption func(*searchOptions)

// LocalOnly skips every provider branch.
func LocalOnly() SearchOption {
	return func(o *searchOptions) { o.localOnly = true }
}

func NewAggregator(providerList []providers.Provider, store catalog.Store, config Config, opts ...Option) *Aggregator {
	if config.LocalLimit <= 0 {
		config.LocalLimit = catalog.MaxLimit
	}
	a := &Aggregator{
		providers: providerList,
		catalog:   store,
		config:    config,
		log:       logger.Discard(),
		mock:      mockgen.Generate,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Providers lists the configured providers in merge order.
func (a *Aggregator) Providers() []providers.Provider {
	return a.providers
}

// Search never fails because a provider failed. The only error it returns is
// a *catalog.CatalogError (or the caller's own cancellation).
func (a *Aggregator) Search(ctx context.Context, q models.SearchQuery, opts ...SearchOption) (*Result, error) {
	var so searchOptions
	for _, opt := range opts {
		opt(&so)
	}

	searchCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}
	log := a.log.WithContext(ctx)
	a.metrics.IncSearchRequests()

	selected := a.selectProviders(q, so)
	providerOffers := make([][]models.Offer, len(selected))
	providerErrs := make([]error, len(selected))
	var local []models.Offer

	g, gctx := errgroup.WithContext(searchCtx)

	if a.catalog != nil {
		g.Go(func() error {
			page, err := a.catalog.Search(gctx, catalog.FromSearch(q, a.config.LocalLimit))
			if err != nil {
				var ce *catalog.CatalogError
				if !errors.As(err, &ce) {
					err = &catalog.CatalogError{Op: "search", Err: err}
				}
				log.CatalogError("search", err)
				return err
			}
			local = page.Offers()
			return nil
		})
	}

	for i, p := range selected {
		g.Go(func() error {
			records, err := a.searchWithRetry(gctx, log, p, q)
			if err != nil {
				providerErrs[i] = err
				// A failed catalog branch cancels gctx; the search is abandoned.
				if errors.Is(err, context.Canceled) && gctx.Err() != nil {
					return nil
				}
				log.ProviderFailure(p.Name(), string(p.Kind()), providers.StatusOf(err), err)
				return nil
			}
			providerOffers[i] = normalizer.NormalizeAll(records, normalizer.Source{
				Provider: p.Name(),
				Kind:     p.Kind(),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Offers:           make([]models.Offer, 0),
		ProvidersQueried: len(selected),
		LocalCount:       len(local),
	}
	for i, p := range selected {
		if providerErrs[i] != nil {
			result.ProvidersFailed++
			result.FailedProviders = append(result.FailedProviders, p.Name())
			continue
		}
		result.ProvidersSucceeded++
		result.Offers = append(result.Offers, providerOffers[i]...)
	}
	result.Offers = append(result.Offers, local...)

	if len(result.Offers) == 0 && (len(selected) == 0 || result.ProvidersSucceeded == 0) {
		result.Offers = a.mock(q)
		result.MockFallback = true
		a.metrics.IncMockFallback()
	}

	return result, nil
}

// selectProviders keeps configured order, narrowed to q.Kind when set.
func (a *Aggregator) selectProviders(q models.SearchQuery, so searchOptions) []providers.Provider {
	if so.localOnly {
		return nil
	}
	if q.Kind == "" {
		return a.providers
	}
	selected := make([]providers.Provider, 0, len(a.providers))
	for _, p := range a.providers {
		if p.Kind() == q.Kind {
			selected = append(selected, p)
		}
	}
	return selected
}

func (a *Aggregator) searchWithRetry(ctx context.Context, log *logger.Logger, provider providers.Provider, q models.SearchQuery) ([]providers.Record, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, providers.NewProviderError(provider.Name(), 0, ctx.Err())
		default:
		}

		if attempt > 0 {
			select {
			case <-time.After(a.retryDelay(attempt)):
			case <-ctx.Done():
				return nil, lastErr
			}
		}

		records, err := provider.Search(ctx, q)
		if err == nil {
			return records, nil
		}

		lastErr = err
		log.Debug("provider attempt failed", "provider", provider.Name(), "attempt", attempt+1, "error", err)
		if !providers.Retryable(err) {
			break
		}
	}

	return nil, lastErr
}

func (a *Aggregator) retryDelay(attempt int) time.Duration {
	if len(a.config.RetryDelays) == 0 {
		return 100 * time.Millisecond
	}
	idx := attempt - 1
	if idx >= len(a.config.RetryDelays) {
		idx = len(a.config.RetryDelays) - 1
	}
	return a.config.RetryDelays[idx]
}
