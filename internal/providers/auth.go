package providers

import (
	"context"
	"net/http"

	"github.com/dharmasatrya/tripease/internal/config"
	"github.com/dharmasatrya/tripease/internal/tokencache"
)

// Authenticator decorates an outbound request with credentials.
type Authenticator interface {
	Apply(ctx context.Context, req *http.Request) error
}

// invalidator is implemented by authenticators whose credential can go stale
// before its advertised expiry.
type invalidator interface {
	Invalidate()
}

type NoAuth struct{}

func (NoAuth) Apply(context.Context, *http.Request) error { return nil }

type BearerAuth struct {
	Token string
}

func (a BearerAuth) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

type QueryKeyAuth struct {
	Param string
	Key   string
}

func (a QueryKeyAuth) Apply(_ context.Context, req *http.Request) error {
	q := req.URL.Query()
	q.Set(a.Param, a.Key)
	req.URL.RawQuery = q.Encode()
	return nil
}

type HeaderKeyAuth struct {
	Header string
	Key    string
}

func (a HeaderKeyAuth) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set(a.Header, a.Key)
	return nil
}

// OAuthAuth sends a client-credentials token obtained through the shared
// token cache.
type OAuthAuth struct {
	Tokens   *tokencache.Cache
	Provider string
}

func (a OAuthAuth) Apply(ctx context.Context, req *http.Request) error {
	tok, err := a.Tokens.Token(ctx, a.Provider)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	return nil
}

func (a OAuthAuth) Invalidate() {
	a.Tokens.Invalidate(a.Provider)
}

// NewAuthenticator builds the authenticator for a provider. OAuth2
// credentials are registered with tokens under the provider name.
func NewAuthenticator(provider string, cfg config.AuthConfig, tokens *tokencache.Cache) Authenticator {
	switch cfg.Type {
	case config.AuthBearer:
		return BearerAuth{Token: cfg.APIKey}
	case config.AuthQuery:
		return QueryKeyAuth{Param: cfg.Param, Key: cfg.APIKey}
	case config.AuthHeader:
		header := cfg.Header
		if header == "" {
			header = "X-API-Key"
		}
		return HeaderKeyAuth{Header: header, Key: cfg.APIKey}
	case config.AuthOAuth2:
		tokens.Register(provider, tokencache.Credentials{
			TokenURL:     cfg.TokenURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		})
		return OAuthAuth{Tokens: tokens, Provider: provider}
	default:
		return NoAuth{}
	}
}
