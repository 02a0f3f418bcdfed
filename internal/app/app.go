package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/auth"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/config"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/event"
	handler "github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/handler/http"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	redisstore "github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store/redis"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/health"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httpclient"
	pkgkafka "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/kafka"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the storefront session service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront-session-service",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Commerce backend client behind a retrying transport and a circuit
	// breaker.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("medusa"),
		logger,
	)
	backend := medusa.New(medusa.Config{
		BaseURL:        cfg.MedusaBaseURL,
		PublishableKey: cfg.MedusaPublishableKey,
	}, breaker, logger)

	// Build the dependency graph.
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Hour
	sessionStore := redisstore.NewSessionStore(rdb, sessionTTL, logger)
	eventProducer := event.NewProducer(producer, logger)
	tokens := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	carts := session.NewCartManager(backend, sessionStore, eventProducer, logger)
	regions := session.NewRegionService(backend, sessionStore, carts, eventProducer, logger)
	categories := session.NewCategoryCache(backend, sessionStore, logger)
	catalog := session.NewCatalogService(backend, sessionStore, logger)
	authService := session.NewAuthService(backend, sessionStore, carts, tokens, eventProducer, logger)
	sessions := session.NewSessionService(sessionStore, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	router := handler.NewRouter(carts, regions, categories, catalog, authService, sessions, handler.RouterConfig{
		Logger:             logger,
		HealthHandler:      healthHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		PprofCIDRs:         cfg.PprofAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
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

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush spans.
	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
