package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dharmasatrya/tripease/internal/cache"
	"github.com/dharmasatrya/tripease/internal/config"
	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/obs"
	"github.com/dharmasatrya/tripease/internal/ratelimit"
	"github.com/dharmasatrya/tripease/internal/tokencache"
)

const (
	DefaultTimeout = 15 * time.Second

	maxBodyBytes   = 10 << 20
	maxDetailBytes = 512
)

// Deps are the shared collaborators of every HTTP provider.
type Deps struct {
	Client  *http.Client
	Cache   cache.Cache[[]Record]
	Limiter *ratelimit.ProviderLimiter
	Tokens  *tokencache.Cache
	Metrics *obs.Metrics
}

// HTTPProvider searches one JSON-over-HTTP endpoint described by a
// ProviderConfig.
type HTTPProvider struct {
	name     string
	kind     models.Kind
	endpoint string
	method   string
	timeout  time.Duration
	params   map[string]string
	static   map[string]string
	keys     []string

	auth    Authenticator
	client  *http.Client
	cache   cache.Cache[[]Record]
	limiter *ratelimit.ProviderLimiter
	metrics *obs.Metrics
}

func NewHTTPProvider(cfg config.ProviderConfig, deps Deps) *HTTPProvider {
	client := deps.Client
	if client == nil {
		client = &http.Client{}
	}
	c := deps.Cache
	if c == nil {
		c = cache.NewNoOpCache[[]Record]()
	}
	tokens := deps.Tokens
	if tokens == nil && cfg.Auth.Type == config.AuthOAuth2 {
		tokens = tokencache.New()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	method := strings.ToUpper(cfg.Method)
	if method == "" {
		method = http.MethodGet
	}

	if deps.Limiter != nil {
		deps.Limiter.Configure(cfg.Name, ratelimit.Limit{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
	}

	return &HTTPProvider{
		name:     cfg.Name,
		kind:     cfg.Kind,
		endpoint: cfg.URL,
		method:   method,
		timeout:  timeout,
		params:   paramNames(cfg.Kind, cfg.Params),
		static:   cfg.Static,
		keys:     resultKeys(cfg),
		auth:     NewAuthenticator(cfg.Name, cfg.Auth, tokens),
		client:   client,
		cache:    c,
		limiter:  deps.Limiter,
		metrics:  deps.Metrics,
	}
}

func (p *HTTPProvider) Name() string {
	return p.name
}

func (p *HTTPProvider) Kind() models.Kind {
	return p.kind
}

func (p *HTTPProvider) Search(ctx context.Context, q models.SearchQuery) ([]Record, error) {
	key := q.Signature(p.name)
	if cached, ok := p.cache.Get(ctx, key); ok {
		p.metrics.ObserveProvider(p.name, "cache_hit", 0)
		return cached, nil
	}

	start := time.Now()
	records, err := p.fetch(ctx, q)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.Canceled) {
			outcome = "canceled"
		}
		p.metrics.ObserveProvider(p.name, outcome, elapsed)
		return nil, err
	}
	p.metrics.ObserveProvider(p.name, "success", elapsed)

	// A cache write failure only costs a future refetch.
	_ = p.cache.Set(ctx, key, records)
	return records, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, q models.SearchQuery) ([]Record, error) {
	if err := p.limiter.Wait(ctx, p.name); err != nil {
		return nil, NewProviderError(p.name, 0, fmt.Errorf("rate limit: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := p.newRequest(ctx, buildParams(q, p.params, p.static))
	if err != nil {
		return nil, NewProviderError(p.name, 0, err)
	}
	if err := p.auth.Apply(ctx, req); err != nil {
		return nil, NewProviderError(p.name, 0, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, NewProviderError(p.name, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := p.auth.(invalidator); ok {
				inv.Invalidate()
			}
		}
		return nil, NewProviderError(p.name, resp.StatusCode, upstreamError(detail))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewProviderError(p.name, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	records, err := extractRecords(body, p.keys)
	if err != nil {
		return nil, NewProviderError(p.name, resp.StatusCode, err)
	}
	return records, nil
}

func (p *HTTPProvider) newRequest(ctx context.Context, params map[string]string) (*http.Request, error) {
	if p.method == http.MethodPost {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, err
	}
	values := u.Query()
	for k, v := range params {
		values.Set(k, v)
	}
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func upstreamError(detail []byte) error {
	msg := strings.TrimSpace(string(detail))
	if msg == "" {
		return errors.New("upstream error")
	}
	return errors.New(msg)
}

// resultKeys lists the object keys probed for the result array, in order.
func resultKeys(cfg config.ProviderConfig) []string {
	candidates := []string{"data", "results", cfg.ResultsKey, cfg.Name, cfg.Kind.Plural()}

	keys := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, k := range candidates {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}
