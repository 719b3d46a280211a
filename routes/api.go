package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/handlers"
	"github.com/opsalert/dispatch-console/internal/middlewares"
)

// RequestBodyLimit caps every /api/v1 request body.
const RequestBodyLimit = "100K"

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	messageHandler *handlers.MessageHandler,
	userHandler *handlers.UserHandler,
	monitorHandler *handlers.MonitorHandler,
	cfg *environments.Config,
	keys middlewares.KeySource,
) {
	auth := middlewares.JWTAuth(cfg.Supabase.JWTSecret, keys)

	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Viewer websocket
	e.GET("/whatsapp-monitor", monitorHandler.Stream)

	// API v1 base group
	v1 := e.Group("/api/v1", middleware.BodyLimit(RequestBodyLimit))

	// Posted by the workflow engine, no bearer token
	v1.POST("/whatsapp-monitor/webhook", monitorHandler.Webhook)

	messages := v1.Group("/messages", auth)
	messages.POST("/send", messageHandler.SendMessage)

	logs := v1.Group("/logs", auth)
	logs.GET("", messageHandler.GetLogs)
	logs.GET("/stats", messageHandler.GetStats)
	logs.GET("/:id", messageHandler.GetLog)

	users := v1.Group("/users", auth)
	users.GET("", userHandler.ListUsers)
	users.POST("/register", userHandler.RegisterUser)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id/active", userHandler.SetUserActive)
}
