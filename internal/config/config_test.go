package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dharmasatrya/tripease/internal/models"
)

var providerEnv = []string{
	"TRIP_HOTEL_API_URL", "TRIP_HOTEL_API_KEY", "TRIP_HOTEL_API_KEY_PARAM_NAME", "HOTEL_CACHE_TTL_MS",
	"TRIP_BUS_API_URL", "TRIP_BUS_API_KEY", "TRIP_BUS_API_KEY_PARAM_NAME", "BUS_CACHE_TTL_MS",
	"AMADEUS_CLIENT_ID", "AMADEUS_CLIENT_SECRET", "AMADEUS_BASE_URL", "AMADEUS_ENABLED",
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range providerEnv {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func find(list []ProviderConfig, name string) (ProviderConfig, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

func TestParseProviders(t *testing.T) {
	t.Setenv("EXPLORE_KEY", "s3cret")

	list, err := ParseProviders([]byte(`
providers:
  - name: explore
    kind: destinations
    url: https://explore.example.com/v1/places
    method: post
    timeout: 2s
    cache_ttl: 10m
    results_key: places
    params:
      keyword: q
      category: ""
    static_params:
      lang: en
    auth:
      type: header
      header: X-Explore-Key
      api_key: ${EXPLORE_KEY}
    rate_limit:
      rps: 5
      burst: 10
`))
	if err != nil {
		t.Fatalf("ParseProviders: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d providers", len(list))
	}

	p := list[0]
	if p.Timeout != 2*time.Second || p.CacheTTL != 10*time.Minute {
		t.Errorf("durations = %v, %v", p.Timeout, p.CacheTTL)
	}
	if p.Auth.APIKey != "s3cret" || p.Auth.Header != "X-Explore-Key" {
		t.Errorf("auth = %+v", p.Auth)
	}
	if p.Params["keyword"] != "q" || p.Params["category"] != "" || p.Static["lang"] != "en" {
		t.Errorf("params = %v static = %v", p.Params, p.Static)
	}
	if p.RateLimit.RequestsPerSecond != 5 || p.RateLimit.Burst != 10 {
		t.Errorf("rate limit = %+v", p.RateLimit)
	}
	if p.ResultsKey != "places" {
		t.Errorf("results key = %q", p.ResultsKey)
	}

	if _, err := ParseProviders([]byte("providers: [")); err == nil {
		t.Error("expected error for broken yaml")
	}
}

func TestLoadProviders_FileDefaultsAndWarnings(t *testing.T) {
	clearProviderEnv(t)

	path := writeFile(t, `
providers:
  - name: explore
    kind: destinations
    url: https://explore.example.com/v1/places
    method: post
  - name: nourl
    kind: hotel
  - name: weird
    kind: spaceship
    url: https://weird.example.com
  - name: keyless
    kind: bus
    url: https://bus.example.com
    auth:
      type: bearer
  - name: oauth-no-token-url
    kind: flight
    url: https://flights.example.com
    auth:
      type: oauth2
`)

	list, warnings, err := LoadProviders(path, 3*time.Second, time.Hour)
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("got %d providers, want explore and keyless: %+v", len(list), list)
	}
	explore, _ := find(list, "explore")
	if explore.Kind != models.KindDestination || explore.Method != "POST" {
		t.Errorf("explore = %+v", explore)
	}
	if explore.Timeout != 3*time.Second || explore.CacheTTL != time.Hour || explore.Auth.Type != AuthNone {
		t.Errorf("defaults not applied: %+v", explore)
	}

	keyless, _ := find(list, "keyless")
	if keyless.Auth.Type != AuthNone {
		t.Errorf("keyless auth = %q, want downgrade to none", keyless.Auth.Type)
	}

	if len(warnings) != 4 {
		t.Errorf("warnings = %q", warnings)
	}
}

func TestLoadProviders_MissingFile(t *testing.T) {
	clearProviderEnv(t)

	if _, _, err := LoadProviders(filepath.Join(t.TempDir(), "missing.yaml"), time.Second, time.Hour); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadProviders_LegacyEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("TRIP_HOTEL_API_URL", "https://hotels.example.com/search")
	t.Setenv("TRIP_HOTEL_API_KEY", "hk")
	t.Setenv("TRIP_HOTEL_API_KEY_PARAM_NAME", "apikey")
	t.Setenv("HOTEL_CACHE_TTL_MS", "30000")
	t.Setenv("TRIP_BUS_API_URL", "https://buses.example.com/search")
	t.Setenv("TRIP_BUS_API_KEY", "bk")
	t.Setenv("AMADEUS_CLIENT_ID", "id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "secret")
	t.Setenv("AMADEUS_BASE_URL", "https://amadeus.example.com/")

	list, warnings, err := LoadProviders("", 15*time.Second, time.Hour)
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %q", warnings)
	}

	tests := []struct {
		name     string
		kind     models.Kind
		authType string
		ttl      time.Duration
	}{
		{"hotels", models.KindHotel, AuthQuery, 30 * time.Second},
		{"buses", models.KindBus, AuthBearer, time.Hour},
		{"amadeus-destinations", models.KindDestination, AuthOAuth2, time.Hour},
		{"amadeus-flights", models.KindFlight, AuthOAuth2, time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := find(list, tt.name)
			if !ok {
				t.Fatalf("provider %s missing", tt.name)
			}
			if p.Kind != tt.kind || p.Auth.Type != tt.authType || p.CacheTTL != tt.ttl {
				t.Errorf("provider = %+v", p)
			}
		})
	}

	hotels, _ := find(list, "hotels")
	if hotels.Auth.Param != "apikey" || hotels.Auth.APIKey != "hk" {
		t.Errorf("hotel auth = %+v", hotels.Auth)
	}
	flights, _ := find(list, "amadeus-flights")
	if flights.Auth.TokenURL != "https://amadeus.example.com/v1/security/oauth2/token" {
		t.Errorf("token url = %q", flights.Auth.TokenURL)
	}
}

func TestLoadProviders_FileOverridesEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("TRIP_HOTEL_API_URL", "https://legacy.example.com")

	path := writeFile(t, `
providers:
  - name: hotels
    kind: hotel
    url: https://hotels.example.com/v2
`)
	list, _, err := LoadProviders(path, time.Second, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].URL != "https://hotels.example.com/v2" {
		t.Errorf("providers = %+v", list)
	}
}

func TestLoad(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PROVIDERS_FILE", "")
	t.Setenv("SEARCH_TIMEOUT", "3s")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("PROVIDER_MAX_RETRIES", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SearchTimeout != 3*time.Second {
		t.Errorf("search timeout = %v", cfg.SearchTimeout)
	}
	if cfg.CacheBackend != CacheBackendRedis || cfg.RedisAddr() != "cache:6380" {
		t.Errorf("cache = %q %q", cfg.CacheBackend, cfg.RedisAddr())
	}
	if cfg.ProviderMaxRetries != 1 {
		t.Errorf("bad int should fall back to default, got %d", cfg.ProviderMaxRetries)
	}

	t.Setenv("CACHE_BACKEND", "memcached")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown cache backend")
	}
}
