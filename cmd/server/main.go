package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/adapter/cache"
	"github.com/reelvoice/reelvoice/internal/adapter/couchpotato"
	"github.com/reelvoice/reelvoice/internal/adapter/http/fiber/handlers"
	"github.com/reelvoice/reelvoice/internal/adapter/http/fiber/middleware"
	"github.com/reelvoice/reelvoice/internal/adapter/queue"
	"github.com/reelvoice/reelvoice/internal/adapter/vault"
	wsAdapter "github.com/reelvoice/reelvoice/internal/adapter/websocket"
	"github.com/reelvoice/reelvoice/internal/observability/telemetry"
	"github.com/reelvoice/reelvoice/internal/service/dialogue"
	"github.com/reelvoice/reelvoice/internal/service/health"
	"github.com/reelvoice/reelvoice/internal/service/history"
	"github.com/reelvoice/reelvoice/pkg/config"
)

const (
	serviceName    = "reelvoice"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Reel Voice",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Logging.Level == "debug" {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerName := cfg.OpenTelemetry.ServiceName
		if tracerName == "" {
			tracerName = serviceName
		}
		tracerProvider, err := telemetry.InitTracer(tracerName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Initialize Cache (Redis, in-memory fallback)
	cacheStore, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		cacheStore = cache.NewLocalCache(time.Minute, logger)
	}
	defer cacheStore.Close()

	// 5. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue.Backend, cfg.Queue.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	if messageQueue != nil {
		defer messageQueue.Close()
	}

	// 6. Resolve the movie manager API key (Vault optional)
	apiKey := cfg.MovieManager.APIKey
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to initialize Vault client", zap.Error(err))
		}
		apiKey, err = secrets.GetMovieManagerAPIKey()
		if err != nil {
			logger.Fatal("Failed to read movie manager API key from Vault", zap.Error(err))
		}
	}

	// 7. Initialize Movie Manager Client
	movieClient := couchpotato.New(&couchpotato.Config{
		BaseURL: cfg.MovieManager.BaseURL,
		APIKey:  apiKey,
		Timeout: cfg.MovieManager.Timeout,
		Breaker: couchpotato.BreakerConfig{
			Enabled:     cfg.MovieManager.Breaker.Enabled,
			MaxRequests: cfg.MovieManager.Breaker.MaxRequests,
			Interval:    cfg.MovieManager.Breaker.Interval,
			Timeout:     cfg.MovieManager.Breaker.Timeout,
		},
	}, logger)

	// 8. Initialize Services (Business Logic Layer)
	historyService := history.NewService(cacheStore, cfg.Dialogue.History.Limit, cfg.Dialogue.History.TTL, logger)
	dialogueService := dialogue.NewService(movieClient, historyService, messageQueue, cfg.Dialogue.TurnTimeout, logger)

	healthService := health.NewService(serviceVersion, logger)
	healthService.RegisterChecker("cache", func(ctx context.Context) error { return cacheStore.Ping() })
	healthService.RegisterChecker("moviemanager", movieClient.Available)

	// 9. Initialize WebSocket Hub (live event stream)
	wsHub := wsAdapter.NewHub()
	go wsHub.Run()

	relay := wsAdapter.NewRelay(wsHub, logger)
	if err := relay.Start(messageQueue, dialogue.SubjectTurns, dialogue.SubjectMoviesRequested); err != nil {
		logger.Fatal("Failed to start event relay", zap.Error(err))
	}

	// 10. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsPath := cfg.Prometheus.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		app.Get(metricsPath, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/v1")

	alexaHandler := handlers.NewAlexaHandler(dialogueService, cfg.Skill.ApplicationID, logger)
	v1.Post("/alexa", alexaHandler.HandleWebhook)

	historyHandler := handlers.NewHistoryHandler(historyService, logger)
	v1.Get("/sessions/:id/history", historyHandler.GetTranscript)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(func(c *websocket.Conn) {
		wsHub.AddClient(c)
	}))

	// 11. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
