// Package tokencache keeps OAuth2 client-credentials tokens per provider and
// refreshes them before they expire. Concurrent refreshes for one provider
// are coalesced into a single exchange.
package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/tripease/internal/logger"
	"github.com/dharmasatrya/tripease/internal/obs"
)

const (
	DefaultSafetyMargin    = 60 * time.Second
	DefaultExchangeTimeout = 10 * time.Second
)

var (
	ErrMissingCredentials = errors.New("client credentials not configured")
	ErrMalformedToken     = errors.New("malformed token response")
)

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

func (c Credentials) complete() bool {
	return c.TokenURL != "" && c.ClientID != "" && c.ClientSecret != ""
}

// AuthFailure reports that no usable token could be obtained for a provider.
// Permanent failures come from configuration and are never retried.
type AuthFailure struct {
	Provider  string
	Permanent bool
	Status    int
	Err       error
}

func (e *AuthFailure) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("auth %s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("auth %s: %v", e.Provider, e.Err)
}

func (e *AuthFailure) Unwrap() error {
	return e.Err
}

type Cache struct {
	mu     sync.RWMutex
	tokens map[string]Token
	creds  map[string]Credentials
	warned map[string]*sync.Once

	group singleflight.Group

	httpClient      *http.Client
	now             func() time.Time
	safetyMargin    time.Duration
	exchangeTimeout time.Duration
	log             *logger.Logger
	metrics         *obs.Metrics
}

type Option func(*Cache)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.httpClient = client }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithSafetyMargin(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.safetyMargin = d
		}
	}
}

func WithExchangeTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.exchangeTimeout = d
		}
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Cache) { c.log = log }
}

func WithMetrics(m *obs.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		tokens:          make(map[string]Token),
		creds:           make(map[string]Credentials),
		warned:          make(map[string]*sync.Once),
		httpClient:      &http.Client{},
		now:             time.Now,
		safetyMargin:    DefaultSafetyMargin,
		exchangeTimeout: DefaultExchangeTimeout,
		log:             logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register sets the credentials used for provider. Re-registering drops any
// cached token.
func (c *Cache) Register(provider string, creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds[provider] = creds
	delete(c.tokens, provider)
	if _, ok := c.warned[provider]; !ok {
		c.warned[provider] = &sync.Once{}
	}
}

// Invalidate drops the cached token so the next call exchanges again.
func (c *Cache) Invalidate(provider string) {
	c.mu.Lock()
	delete(c.tokens, provider)
	c.mu.Unlock()
}

// Token returns a valid bearer token for provider, exchanging credentials
// only when no unexpired token is cached.
func (c *Cache) Token(ctx context.Context, provider string) (Token, error) {
	c.mu.RLock()
	tok, cached := c.tokens[provider]
	creds, registered := c.creds[provider]
	once := c.warned[provider]
	c.mu.RUnlock()

	if cached && c.now().Before(tok.ExpiresAt) {
		return tok, nil
	}

	if !registered || !creds.complete() {
		failure := &AuthFailure{Provider: provider, Permanent: true, Err: ErrMissingCredentials}
		if once != nil {
			once.Do(func() { c.log.AuthFailure(provider, true, failure.Err) })
		}
		return Token{}, failure
	}

	ch := c.group.DoChan(provider, func() (interface{}, error) {
		return c.refresh(ctx, provider, creds)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return res.Val.(Token), nil
	case <-ctx.Done():
		return Token{}, &AuthFailure{Provider: provider, Err: ctx.Err()}
	}
}

func (c *Cache) refresh(ctx context.Context, provider string, creds Credentials) (Token, error) {
	// A caller that queued behind a finished refresh finds the new token here.
	c.mu.RLock()
	tok, ok := c.tokens[provider]
	c.mu.RUnlock()
	if ok && c.now().Before(tok.ExpiresAt) {
		return tok, nil
	}

	// The exchange outlives any single waiter's cancellation.
	exCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.exchangeTimeout)
	defer cancel()

	tok, err := c.exchange(exCtx, provider, creds)
	if err != nil {
		c.metrics.IncTokenExchange(provider, "failure")
		c.log.AuthFailure(provider, false, err)
		return Token{}, err
	}
	c.metrics.IncTokenExchange(provider, "success")

	c.mu.Lock()
	c.tokens[provider] = tok
	c.mu.Unlock()

	return tok, nil
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
	TokenType   string      `json:"token_type"`
}

func (c *Cache) exchange(ctx context.Context, provider string, creds Credentials) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, &AuthFailure{Provider: provider, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	issuedAt := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, &AuthFailure{Provider: provider, Err: fmt.Errorf("http request: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Token{}, &AuthFailure{
			Provider: provider,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("token endpoint rejected credentials: %s", strings.TrimSpace(string(body))),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Token{}, &AuthFailure{Provider: provider, Err: fmt.Errorf("%w: %v", ErrMalformedToken, err)}
	}
	if tr.AccessToken == "" {
		return Token{}, &AuthFailure{Provider: provider, Err: fmt.Errorf("%w: missing access_token", ErrMalformedToken)}
	}
	seconds, err := tr.ExpiresIn.Float64()
	if err != nil || seconds <= 0 {
		return Token{}, &AuthFailure{Provider: provider, Err: fmt.Errorf("%w: invalid expires_in %q", ErrMalformedToken, tr.ExpiresIn)}
	}

	lifetime := time.Duration(seconds * float64(time.Second))
	usable := lifetime - c.safetyMargin
	if usable <= 0 {
		// Tokens shorter than the margin are still used for half their life.
		usable = lifetime / 2
	}

	return Token{Value: tr.AccessToken, ExpiresAt: issuedAt.Add(usable)}, nil
}
