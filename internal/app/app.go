// Package app wires the storefront's dependencies together and runs the
// HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sareehouse/storefront/internal/cache"
	"github.com/sareehouse/storefront/internal/catalog"
	"github.com/sareehouse/storefront/internal/config"
	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/event"
	handlerhttp "github.com/sareehouse/storefront/internal/handler/http"
	"github.com/sareehouse/storefront/internal/kvstore"
	kvmemory "github.com/sareehouse/storefront/internal/kvstore/memory"
	kvredis "github.com/sareehouse/storefront/internal/kvstore/redis"
	"github.com/sareehouse/storefront/internal/service"
	"github.com/sareehouse/storefront/internal/wishlist"
	"github.com/sareehouse/storefront/pkg/health"
	"github.com/sareehouse/storefront/pkg/httpclient"
	"github.com/sareehouse/storefront/pkg/kafka"
	"github.com/sareehouse/storefront/pkg/middleware"
	"github.com/sareehouse/storefront/pkg/tracing"
)

// App holds the wired service and its closable resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server

	redisClient     *goredis.Client
	kafkaProducer   *kafka.Producer
	tracingShutdown func(context.Context) error
}

// New builds the application from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = tracingShutdown

	healthHandler := health.NewHandler()

	var kv kvstore.Store
	if cfg.RedisAddr != "" {
		a.redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		kv = kvredis.New(a.redisClient)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.redisClient.Ping(ctx).Err()
		})
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory store; state will not survive restarts")
		kv = kvmemory.New()
	}

	var publisher event.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		a.kafkaProducer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.kafkaProducer
		healthHandler.Register("kafka", a.kafkaProducer.Ping)
	}
	events := event.NewProducer(publisher, cfg.KafkaTopic, logger)

	baseClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.CatalogTimeout,
		MaxRetries:      cfg.CatalogMaxRetries,
		RetryWaitMin:    time.Second,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})
	breakerClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("catalog-api"),
		logger,
	)

	// The session reads the admin key the catalog client attaches to
	// mutations; the function indirection breaks the construction cycle.
	var session *service.Session
	catalogClient := catalog.New(breakerClient, cfg.CatalogAPIURL,
		catalog.KeySourceFunc(func(ctx context.Context) (string, error) {
			return session.AdminKey(ctx)
		}),
		logger,
	)
	session = service.NewSession(catalogClient, kv, []byte(cfg.JWTSecret), cfg.AdminAPIKey, cfg.TokenTTL, logger)
	healthHandler.Register("catalog_api", catalogClient.Ping)

	productCache := cache.New[[]domain.Product]("products", cfg.CacheTTL)
	categoryCache := cache.New[[]domain.Category]("categories", cfg.CacheTTL)
	templateCache := cache.New[[]domain.ProductTemplate]("templates", cfg.CacheTTL)

	storefrontSvc := service.NewStorefront(catalogClient, productCache, categoryCache, logger)
	tracker := service.NewMutationTracker(cfg.SuccessWindow)
	adminSvc := service.NewAdmin(catalogClient, tracker, events, productCache, categoryCache, templateCache, logger)
	wishlistStore := wishlist.New(kv, logger)

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		Storefront: storefrontSvc,
		Admin:      adminSvc,
		Session:    session,
		Wishlist:   wishlistStore,
		Health:     healthHandler,
		Logger:     logger,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		LoginRateLimit: cfg.LoginRateLimit,
		LoginRateBurst: cfg.LoginRateBurst,
	})

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := a.tracingShutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}
	return errors.Join(errs...)
}
