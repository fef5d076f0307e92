// Package config loads service configuration from the environment, an
// optional .env file and an optional YAML provider file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	SearchTimeout      time.Duration
	ProviderTimeout    time.Duration
	ProviderMaxRetries int
	TokenSafetyMargin  time.Duration

	CacheBackend          string
	ResultCacheTTL        time.Duration
	ResultCacheMaxEntries int
	CacheSweepInterval    time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	DatabaseURL        string
	PhoneDefaultRegion string

	ProvidersFile string
	Providers     []ProviderConfig
	// Warnings collects non-fatal problems found while loading providers.
	Warnings []string
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		SearchTimeout:         getEnvDuration("SEARCH_TIMEOUT", 8*time.Second),
		ProviderTimeout:       getEnvDuration("PROVIDER_TIMEOUT", 15*time.Second),
		ProviderMaxRetries:    getEnvInt("PROVIDER_MAX_RETRIES", 1),
		TokenSafetyMargin:     getEnvDuration("TOKEN_SAFETY_MARGIN", 60*time.Second),
		CacheBackend:          strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		ResultCacheTTL:        getEnvDuration("RESULT_CACHE_TTL", time.Hour),
		ResultCacheMaxEntries: getEnvInt("RESULT_CACHE_MAX_ENTRIES", 10000),
		CacheSweepInterval:    getEnvDuration("RESULT_CACHE_SWEEP_INTERVAL", 5*time.Minute),
		RedisHost:             getEnv("REDIS_HOST", "localhost"),
		RedisPort:             getEnv("REDIS_PORT", "6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		PhoneDefaultRegion:    strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "IN")),
		ProvidersFile:         getEnv("PROVIDERS_FILE", ""),
	}

	switch cfg.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be memory, redis or none, got %q", cfg.CacheBackend)
	}

	providers, warnings, err := LoadProviders(cfg.ProvidersFile, cfg.ProviderTimeout, cfg.ResultCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.Providers = providers
	cfg.Warnings = warnings

	return cfg, nil
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// getEnvMillis reads a millisecond count, the unit the legacy *_CACHE_TTL_MS
// variables use.
func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms <= 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
