// Package app wires configuration, storage, cache, and transport into a
// runnable pricing service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/staynest/pricingservice/internal/cache"
	"github.com/staynest/pricingservice/internal/metrics"
	"github.com/staynest/pricingservice/internal/pricing/repo/postgres"
	"github.com/staynest/pricingservice/internal/pricing/usecase"
	"github.com/staynest/pricingservice/internal/ratelimit"
	"github.com/staynest/pricingservice/internal/shared/config"
	"github.com/staynest/pricingservice/internal/shared/db"
	"github.com/staynest/pricingservice/internal/shared/log"
	"github.com/staynest/pricingservice/internal/tracing"
	transporthttp "github.com/staynest/pricingservice/internal/transport/http"
)

// App represents the application
type App struct {
	config        *config.Config
	logger        *zap.Logger
	store         *postgres.Store
	redisClient   *redis.Client
	service       *usecase.Service
	httpServer    *transporthttp.Server
	metricsServer *metrics.Server
	shutdownTrace func()
}

// New creates a new application instance
func New(cfg *config.Config) (*App, error) {
	if err := log.Init(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := log.L(context.Background())

	logger.Info("Initializing pricing service",
		zap.String("app_name", cfg.AppName),
		zap.String("http_address", cfg.HTTP.Address))

	dbConfig := db.DefaultConfig()
	dbConfig.DSN = cfg.Postgres.DSN
	dbConfig.MaxConns = cfg.Postgres.MaxConns
	pool, err := db.NewPool(context.Background(), dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	store, err := postgres.NewStoreWithPool(pool.Pool)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// Redis is optional; without it calendars are recomputed per request
	// and rate limiting is disabled.
	redisClient, err := initializeRedis(cfg)
	var priceCache *cache.Cache
	var limiter ratelimit.RateLimiter = ratelimit.NoopLimiter{}
	if err != nil {
		logger.Warn("Redis initialization failed, continuing without Redis",
			zap.Error(err),
			zap.String("redis_addr", cfg.Redis.Addr))
		redisClient = nil
	} else {
		priceCache = cache.NewCacheWithClient(redisClient)
		limiter = ratelimit.NewRedisRateLimiter(redisClient, logger,
			cfg.Pricing.RateLimitPerMin, time.Minute)
	}

	var shutdownTrace func()
	if cfg.Tracing.Enabled {
		tc := tracing.DefaultConfig()
		tc.ServiceName = cfg.AppName
		tc.JaegerEndpoint = cfg.Tracing.JaegerEndpoint
		tc.SamplingRatio = cfg.Tracing.SamplingRatio
		shutdownTrace, err = tracing.Init(tc, logger)
		if err != nil {
			logger.Warn("Tracing initialization failed, continuing without tracing",
				zap.Error(err))
			shutdownTrace = nil
		}
	}

	service := usecase.NewService(store, priceCache, cfg.Pricing.CalendarCacheTTL)

	return &App{
		config:        cfg,
		logger:        logger,
		store:         store,
		redisClient:   redisClient,
		service:       service,
		httpServer:    transporthttp.NewServer(cfg, service, limiter, logger),
		metricsServer: metrics.NewServer(cfg.Metrics.Address, service.Ready, logger),
		shutdownTrace: shutdownTrace,
	}, nil
}

// Run hydrates the rule store and serves until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting pricing service")

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := a.service.Load(loadCtx); err != nil {
		return fmt.Errorf("failed to load pricing state: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.httpServer.Serve(ctx) })
	g.Go(func() error { return a.metricsServer.Start(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.metricsServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down pricing service")

	if a.shutdownTrace != nil {
		a.shutdownTrace()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	a.logger.Info("Application shutdown complete")
	return nil
}

// initializeRedis initializes the Redis client
func initializeRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
