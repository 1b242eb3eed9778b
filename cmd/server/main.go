package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/config"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/handlers"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/services"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/validation"
	"github.com/dulina2004/ai-personal-budget-optimizer/pkg/textgen"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize services
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	cache := services.NewRecommendationCache(context.Background(), log, cfg.FirestoreProject, cfg.CacheTTL)
	recommendationService := services.NewRecommendationService(cfg, log, newGenerator(cfg), cache, metrics)
	session := services.NewPlanSession(log, recommendationService, metrics, cfg.SubmissionHistoryLimit)

	// Initialize handlers
	budgetHandler := handlers.NewBudgetHandler(validation.NewValidator(), session, recommendationService, metrics)
	healthHandler := handlers.NewHealthHandler()

	// Create Fiber app with optimized config
	app := fiber.New(fiber.Config{
		Prefork:       false,
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "APBO-API",
		AppName:       "Budget Optimizer v1.0",
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 45,
		BodyLimit:     1 * 1024 * 1024, // 1MB
		ErrorHandler:  handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Budget Optimizer API",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	app.Get("/health", healthHandler.Health)
	app.Get("/health/ready", healthHandler.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := app.Group("/v1")
	v1.Post("/budget/allocate", budgetHandler.Allocate)
	v1.Post("/budget/plan", budgetHandler.Plan)
	v1.Post("/budget/submissions", budgetHandler.Submit)
	v1.Get("/budget/submissions/:id/recommendation", budgetHandler.GetRecommendation)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("budget optimizer API started", "port", port, "environment", cfg.Environment, "provider", cfg.TextGenProvider)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if err := cache.Close(); err != nil {
		log.Warn("failed to close cache", "error", err)
	}

	log.Info("server shutdown complete")
}

func newGenerator(cfg *config.Config) textgen.Generator {
	switch cfg.TextGenProvider {
	case config.ProviderAnthropic:
		return textgen.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.TextGenModel)
	case config.ProviderEndpoint:
		return textgen.NewEndpointClient(cfg.TextGenEndpointURL)
	default:
		return textgen.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.TextGenModel)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
