package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		DB:     0,
		TTL:    time.Hour,
		Prefix: "offers:",
	}
}

// RedisClient connects and pings, so a bad address fails at startup.
func RedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisCache stores JSON-encoded values with a server-side TTL, so entries
// are shared between service instances.
type RedisCache[T any] struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache wraps an existing client. Close does not close a shared client.
func NewRedisCache[T any](client *redis.Client, ttl time.Duration, prefix string) *RedisCache[T] {
	return &RedisCache[T]{client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false
	}
	return value, true
}

func (c *RedisCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *RedisCache[T]) Close() error {
	return nil
}

func (c *RedisCache[T]) key(signature string) string {
	hash := sha256.Sum256([]byte(signature))
	return c.prefix + hex.EncodeToString(hash[:])
}
