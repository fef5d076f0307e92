package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/tripease/internal/models"
)

const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthQuery  = "query"
	AuthHeader = "header"
	AuthOAuth2 = "oauth2"
)

type ProviderConfig struct {
	Name       string            `yaml:"name"`
	Kind       models.Kind       `yaml:"kind"`
	URL        string            `yaml:"url"`
	Method     string            `yaml:"method"`
	Timeout    time.Duration     `yaml:"timeout"`
	CacheTTL   time.Duration     `yaml:"cache_ttl"`
	ResultsKey string            `yaml:"results_key"`
	Params     map[string]string `yaml:"params"`
	Static     map[string]string `yaml:"static_params"`
	Auth       AuthConfig        `yaml:"auth"`
	RateLimit  RateLimitConfig   `yaml:"rate_limit"`
}

type AuthConfig struct {
	Type         string `yaml:"type"`
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	APIKey       string `yaml:"api_key"`
	Param        string `yaml:"param"`
	Header       string `yaml:"header"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"rps"`
	Burst             int     `yaml:"burst"`
}

type providerFile struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// LoadProviders reads provider definitions from path (optional) and adds the
// providers described by the legacy TRIP_* and AMADEUS_* variables. Values
// in the YAML file may reference the environment as ${VAR}.
func LoadProviders(path string, defaultTimeout, defaultTTL time.Duration) ([]ProviderConfig, []string, error) {
	var (
		providers []ProviderConfig
		warnings  []string
	)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read providers file: %w", err)
		}
		parsed, err := ParseProviders(data)
		if err != nil {
			return nil, nil, err
		}
		providers = parsed
	}

	seen := make(map[string]bool, len(providers))
	for _, p := range providers {
		seen[p.Name] = true
	}
	for _, p := range envProviders() {
		if seen[p.Name] {
			continue
		}
		providers = append(providers, p)
	}

	valid := make([]ProviderConfig, 0, len(providers))
	for _, p := range providers {
		p.applyDefaults(defaultTimeout, defaultTTL)
		if err := p.validate(); err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if p.Auth.Type == AuthBearer || p.Auth.Type == AuthQuery || p.Auth.Type == AuthHeader {
			if p.Auth.APIKey == "" {
				warnings = append(warnings, fmt.Sprintf("provider %s: api key not set, requests go out unauthenticated", p.Name))
				p.Auth.Type = AuthNone
			}
		}
		valid = append(valid, p)
	}

	return valid, warnings, nil
}

// ParseProviders decodes a YAML provider document, expanding ${VAR}
// references against the environment first.
func ParseProviders(data []byte) ([]ProviderConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var file providerFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("parse providers file: %w", err)
	}
	return file.Providers, nil
}

func (p *ProviderConfig) applyDefaults(defaultTimeout, defaultTTL time.Duration) {
	p.Name = strings.TrimSpace(p.Name)
	if k, ok := models.ParseKind(string(p.Kind)); ok {
		p.Kind = k
	}
	p.Method = strings.ToUpper(strings.TrimSpace(p.Method))
	if p.Method == "" {
		p.Method = "GET"
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	if p.CacheTTL <= 0 {
		p.CacheTTL = defaultTTL
	}
	p.Auth.Type = strings.ToLower(strings.TrimSpace(p.Auth.Type))
	if p.Auth.Type == "" {
		p.Auth.Type = AuthNone
	}
}

func (p *ProviderConfig) validate() error {
	if p.Name == "" {
		return errors.New("provider without name skipped")
	}
	if _, ok := models.ParseKind(string(p.Kind)); !ok {
		return fmt.Errorf("provider %s: unknown kind %q", p.Name, p.Kind)
	}
	if p.URL == "" {
		return fmt.Errorf("provider %s: url not set, provider disabled", p.Name)
	}
	if p.Method != "GET" && p.Method != "POST" {
		return fmt.Errorf("provider %s: method must be GET or POST", p.Name)
	}
	switch p.Auth.Type {
	case AuthNone, AuthBearer, AuthQuery, AuthHeader:
	case AuthOAuth2:
		if p.Auth.TokenURL == "" {
			return fmt.Errorf("provider %s: oauth2 requires token_url", p.Name)
		}
	default:
		return fmt.Errorf("provider %s: unknown auth type %q", p.Name, p.Auth.Type)
	}
	if p.Auth.Type == AuthQuery && p.Auth.Param == "" {
		return fmt.Errorf("provider %s: query auth requires param", p.Name)
	}
	return nil
}

func envProviders() []ProviderConfig {
	var out []ProviderConfig

	if url := os.Getenv("TRIP_HOTEL_API_URL"); url != "" {
		out = append(out, keyedProvider("hotels", models.KindHotel, url,
			os.Getenv("TRIP_HOTEL_API_KEY"),
			os.Getenv("TRIP_HOTEL_API_KEY_PARAM_NAME"),
			getEnvMillis("HOTEL_CACHE_TTL_MS", 0),
		))
	}

	if url := os.Getenv("TRIP_BUS_API_URL"); url != "" {
		out = append(out, keyedProvider("buses", models.KindBus, url,
			os.Getenv("TRIP_BUS_API_KEY"),
			os.Getenv("TRIP_BUS_API_KEY_PARAM_NAME"),
			getEnvMillis("BUS_CACHE_TTL_MS", 0),
		))
	}

	clientID := os.Getenv("AMADEUS_CLIENT_ID")
	clientSecret := os.Getenv("AMADEUS_CLIENT_SECRET")
	if clientID != "" || clientSecret != "" || getEnvBool("AMADEUS_ENABLED", false) {
		base := strings.TrimRight(getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/")
		auth := AuthConfig{
			Type:         AuthOAuth2,
			TokenURL:     base + "/v1/security/oauth2/token",
			ClientID:     clientID,
			ClientSecret: clientSecret,
		}
		out = append(out,
			ProviderConfig{
				Name: "amadeus-destinations",
				Kind: models.KindDestination,
				URL:  base + "/v1/reference-data/locations/cities",
				Auth: auth,
				Static: map[string]string{
					"max": "10",
				},
			},
			ProviderConfig{
				Name: "amadeus-flights",
				Kind: models.KindFlight,
				URL:  base + "/v2/shopping/flight-offers",
				Auth: auth,
				Static: map[string]string{
					"max": "10",
				},
			},
		)
	}

	return out
}

// keyedProvider mirrors the legacy convention: the key goes in a query
// parameter when a param name is configured, otherwise as a bearer header.
func keyedProvider(name string, kind models.Kind, url, key, keyParam string, ttl time.Duration) ProviderConfig {
	auth := AuthConfig{Type: AuthBearer, APIKey: key}
	if keyParam != "" {
		auth = AuthConfig{Type: AuthQuery, APIKey: key, Param: keyParam}
	}
	return ProviderConfig{
		Name:     name,
		Kind:     kind,
		URL:      url,
		Auth:     auth,
		CacheTTL: ttl,
	}
}
