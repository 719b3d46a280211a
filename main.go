package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/handlers"
	"github.com/opsalert/dispatch-console/internal/relay"
	"github.com/opsalert/dispatch-console/internal/repository"
	"github.com/opsalert/dispatch-console/internal/service"
	"github.com/opsalert/dispatch-console/pkg/database"
	"github.com/opsalert/dispatch-console/pkg/logger"
	"github.com/opsalert/dispatch-console/pkg/redis"
	"github.com/opsalert/dispatch-console/pkg/supabase"
	"github.com/opsalert/dispatch-console/pkg/validator"
	"github.com/opsalert/dispatch-console/pkg/webhook"
	"github.com/opsalert/dispatch-console/routes"

	_ "github.com/opsalert/dispatch-console/docs" // swagger docs
)

// @title Alert Dispatch Console API
// @version 1.0
// @description Operator console backend: signed alert dispatch to the workflow engine, audit log, user administration and a realtime group monitor

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	logger.Init()

	// Load config
	cfg := environments.Load()
	logger.SetLevel(cfg.Server.LogLevel)

	// Hard-fail if required settings are missing
	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Fatalf("Missing required configuration: %s", strings.Join(missing, ", "))
	}

	logger.Infof("Starting Alert Dispatch Console...")

	// Init DB
	db, err := database.NewDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Init redis
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, profile caching disabled: %v", err)
		redisClient = nil
	}

	// Initialize webhook client
	webhookClient := webhook.NewWebhookClient(cfg.Webhook)
	logger.Infof("Webhook configured: %s", webhookClient.GetURL())

	// Initialize repositories
	dispatchLogRepo := repository.NewDispatchLogRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Supabase
	authAdmin := supabase.NewAdminClient(cfg.Supabase)
	keySet := supabase.NewKeySet(cfg.Supabase)

	// Initialize services
	resolver := service.NewIdentityResolver(userRepo)
	if redisClient != nil {
		resolver.UseCache(redisClient)
	}

	dispatchService := service.NewDispatchService(resolver, dispatchLogRepo, webhookClient, cfg.Dispatch)
	userService := service.NewUserService(resolver, userRepo, authAdmin)

	hub := relay.NewHub(cfg.Monitor.ViewerBuffer)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient, hub)
	messageHandler := handlers.NewMessageHandler(dispatchService)
	userHandler := handlers.NewUserHandler(userService)
	monitorHandler := handlers.NewMonitorHandler(hub, cfg.Server.CORSOrigins)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, messageHandler, userHandler, monitorHandler, cfg, keySet)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Shutdown HTTP server (with timeout). In-flight dispatches run detached
	// from the request and are bounded by the dispatch timeout.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Dispatch.Timeout+5*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
