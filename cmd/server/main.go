package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/tripease/internal/aggregator"
	"github.com/dharmasatrya/tripease/internal/booking"
	"github.com/dharmasatrya/tripease/internal/cache"
	"github.com/dharmasatrya/tripease/internal/catalog"
	"github.com/dharmasatrya/tripease/internal/config"
	"github.com/dharmasatrya/tripease/internal/db"
	"github.com/dharmasatrya/tripease/internal/handler"
	"github.com/dharmasatrya/tripease/internal/logger"
	"github.com/dharmasatrya/tripease/internal/obs"
	"github.com/dharmasatrya/tripease/internal/providers"
	"github.com/dharmasatrya/tripease/internal/ratelimit"
	"github.com/dharmasatrya/tripease/internal/tokencache"
	"github.com/dharmasatrya/tripease/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "port", cfg.Port)
	for _, w := range cfg.Warnings {
		log.Warn("provider config", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(registry)

	store, bookings, closeDB := initStorage(ctx, cfg, log)
	defer closeDB()

	newCache, closeCaches := initResultCache(ctx, cfg, log, metrics)
	defer closeCaches()

	tokens := tokencache.New(
		tokencache.WithSafetyMargin(cfg.TokenSafetyMargin),
		tokencache.WithLogger(log),
		tokencache.WithMetrics(metrics),
	)
	limiter := ratelimit.NewProviderLimiterWithDefaults()
	client := &http.Client{}

	providerList := make([]providers.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		providerList = append(providerList, providers.NewHTTPProvider(pc, providers.Deps{
			Client:  client,
			Cache:   newCache(pc),
			Limiter: limiter,
			Tokens:  tokens,
			Metrics: metrics,
		}))
		log.Info("provider registered", "provider", pc.Name, "kind", pc.Kind, "auth", pc.Auth.Type)
	}
	if len(providerList) == 0 {
		log.Warn("no providers configured, searches use the local catalog and mock fallback")
	}

	aggConfig := aggregator.DefaultConfig()
	aggConfig.Timeout = cfg.SearchTimeout
	aggConfig.MaxRetries = cfg.ProviderMaxRetries
	agg := aggregator.NewAggregator(providerList, store, aggConfig,
		aggregator.WithLogger(log),
		aggregator.WithMetrics(metrics),
	)

	val := validator.New()

	e := echo.New()
	e.HideBanner = true
	e.Validator = val
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(handler.RequestContext())
	e.Use(handler.AccessLog(log, metrics))

	handler.RegisterRoutes(e, handler.Handlers{
		Search:  handler.NewSearchHandler(agg, val),
		Trips:   handler.NewTripHandler(store, val),
		Booking: handler.NewBookingHandler(booking.NewService(bookings, store, val, cfg.PhoneDefaultRegion)),
		Metrics: metrics,
	})

	go func() {
		log.Info("server listening", "addr", ":"+cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// initStorage uses Postgres when DATABASE_URL is set and the seeded
// in-memory catalog otherwise.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (catalog.Store, booking.Repository, func()) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, using in-memory catalog")
		return catalog.NewMemoryStore(catalog.SeedTrips()...), booking.NewMemoryRepository(), func() {}
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database ready")

	return catalog.NewPostgresStore(pool), booking.NewPostgresRepository(pool), pool.Close
}

// initResultCache returns a factory building each provider's result cache
// with that provider's TTL.
func initResultCache(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics *obs.Metrics) (func(config.ProviderConfig) cache.Cache[[]providers.Record], func()) {
	var (
		closers []func() error
		client  *redis.Client
	)

	switch cfg.CacheBackend {
	case config.CacheBackendNone:
		log.Info("result cache disabled")
		return func(config.ProviderConfig) cache.Cache[[]providers.Record] {
			return cache.NewNoOpCache[[]providers.Record]()
		}, func() {}

	case config.CacheBackendRedis:
		rc := cache.DefaultRedisConfig()
		rc.Addr = cfg.RedisAddr()
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		c, err := cache.RedisClient(ctx, rc)
		if err != nil {
			log.Error("failed to connect to redis", "error", err, "addr", rc.Addr)
			panic("failed to connect to redis: " + err.Error())
		}
		client = c
		closers = append(closers, client.Close)
		log.Info("redis result cache enabled", "addr", rc.Addr)

	default:
		log.Info("in-memory result cache enabled", "max_entries", cfg.ResultCacheMaxEntries)
	}

	factory := func(pc config.ProviderConfig) cache.Cache[[]providers.Record] {
		var c cache.Cache[[]providers.Record]
		if client != nil {
			c = cache.NewRedisCache[[]providers.Record](client, pc.CacheTTL, cache.DefaultRedisConfig().Prefix+pc.Name+":")
		} else {
			mc := cache.NewMemoryCache[[]providers.Record](pc.CacheTTL, cache.WithMaxEntries(cfg.ResultCacheMaxEntries))
			mc.StartSweeper(cfg.CacheSweepInterval)
			closers = append(closers, mc.Close)
			c = mc
		}
		return cache.NewInstrumented(c, metrics, pc.Name)
	}

	return factory, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn("close result cache", "error", err)
			}
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Warn("retrying "+name, "attempt", i, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
