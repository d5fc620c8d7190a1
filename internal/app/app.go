// Package app wires the storefront's dependencies and owns its
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/backend"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/catalog"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/chat"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/config"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/event"
	handler "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/handler/http"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/proxy"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/session"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/health"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/httpclient"
	pkgkafka "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/kafka"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/middleware"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	relay           *chat.Relay
	producer        *pkgkafka.Producer
	redisClient     *redis.Client
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	// Tracing.
	shutdown, err := tracing.InitTracer(context.Background(), tracing.Config{
		ServiceName:  "watchify-storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = shutdown

	// Backend client with retries and a circuit breaker.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.BackendTimeout
	breaker := httpclient.NewBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultBreakerConfig("catalog-backend"),
		logger,
	)
	backendClient := backend.New(cfg.BackendURL, breaker, logger)

	// Catalog aggregation store.
	store := catalog.NewStore(catalog.NewAggregator(backendClient, logger), logger)

	// Session store.
	var sessionStore session.Store
	healthHandler := health.NewHandler()
	if cfg.SessionStore == "redis" {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		sessionStore = session.NewRedisStore(a.redisClient, cfg.SessionTTL)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.redisClient.Ping(ctx).Err()
		})
		logger.Info("redis session store initialized", slog.String("addr", cfg.RedisAddr))
	} else {
		sessionStore = session.NewMemoryStore()
		logger.Info("in-memory session store initialized")
	}

	// Analytics producer; disabled when no brokers are configured.
	if len(cfg.KafkaBrokers) > 0 {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	events := event.NewPublisher(a.producer, logger)

	// Debounced chat relay.
	a.relay = chat.NewRelay(backendClient, cfg.ChatDebounceWindow, logger)

	// Pass-through proxy for backend-owned surfaces.
	passthrough, err := proxy.NewPassthrough(cfg.BackendURL, logger)
	if err != nil {
		return nil, fmt.Errorf("init backend passthrough: %w", err)
	}

	router := handler.NewRouter(handler.RouterDeps{
		CatalogStore:  store,
		Products:      backendClient,
		ChatRelay:     a.relay,
		SessionStore:  sessionStore,
		Events:        events,
		Passthrough:   passthrough,
		HealthHandler: healthHandler,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		RateLimitRPS: cfg.RateLimitRPS,
		Logger:       logger,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush pending chat messages before the transport goes away.
	a.relay.Close()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
