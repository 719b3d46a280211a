package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/pkg/redis"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type viewerCounter interface {
	Count() int
}

// HealthHandler handles health checks.
type HealthHandler struct {
	db           pinger
	redis        *redis.Client
	hub          viewerCounter
	checkTimeout time.Duration
}

func NewHealthHandler(db pinger, redisClient *redis.Client, hub viewerCounter) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redis:        redisClient,
		hub:          hub,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status and basic component statuses (DB, Redis, monitor relay).
// @Summary Health check
// @Description Returns overall status with DB and Redis connectivity results and the number of connected monitor viewers
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	dbStatus := "up"
	if h.db == nil {
		dbStatus = "down"
		overallStatus = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "down"
		overallStatus = "down"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "down"
			if overallStatus == "ok" {
				overallStatus = "degraded"
			}
		} else {
			redisStatus = "up"
		}
	}

	viewers := 0
	if h.hub != nil {
		viewers = h.hub.Count()
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"database": map[string]any{
				"status": dbStatus,
			},
			"redis": map[string]any{
				"status": redisStatus,
			},
			"monitor": map[string]any{
				"viewers": viewers,
			},
		},
	})
}
