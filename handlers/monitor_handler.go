package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/relay"
	"github.com/opsalert/dispatch-console/pkg/logger"
	"github.com/opsalert/dispatch-console/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// MonitorHandler ingests group status webhooks from the workflow engine and
// serves the viewer websocket.
type MonitorHandler struct {
	hub      *relay.Hub
	upgrader websocket.Upgrader
	now      func() time.Time
}

func NewMonitorHandler(hub *relay.Hub, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		now: time.Now,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type MonitorWebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

// Webhook godoc
// @Summary Receive group status update
// @Description Accepts a single event object or an array (first element used) and broadcasts it to connected viewers
// @Tags whatsapp-monitor
// @Accept json
// @Produce json
// @Param payload body domain.MonitorWebhookPayload true "Group status event"
// @Success 200 {object} MonitorWebhookResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/whatsapp-monitor/webhook [post]
func (h *MonitorHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BadRequest(c, err)
	}

	payload, err := decodeMonitorPayload(body)
	if err != nil {
		return response.BadRequest(c, err)
	}

	eventType := payload.EventType
	if eventType == "" {
		eventType = "update"
	}
	logger.Infof("Monitor webhook received: %s", eventType)

	if payload.EventType == domain.EventTypeSync && payload.Groups != nil {
		if _, err := h.hub.BroadcastGroupsSync(payload.Groups); err != nil {
			logger.Errorf("Failed to broadcast groups sync: %v", err)
		}

		count := len(payload.Groups)
		return c.JSON(http.StatusOK, MonitorWebhookResponse{
			Success: true,
			Message: "Groups synced",
			Count:   &count,
		})
	}

	update := relay.Normalize(payload, h.now())
	if _, err := h.hub.BroadcastGroupUpdate(update); err != nil {
		logger.Errorf("Failed to broadcast group update: %v", err)
	}

	return c.JSON(http.StatusOK, MonitorWebhookResponse{
		Success: true,
		Message: "Update broadcasted",
		GroupID: payload.GroupID,
	})
}

// decodeMonitorPayload accepts an object or an array of objects, in which
// case only the first element is used.
func decodeMonitorPayload(body []byte) (domain.MonitorWebhookPayload, error) {
	var payload domain.MonitorWebhookPayload

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []domain.MonitorWebhookPayload
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return payload, fmt.Errorf("invalid monitor payload: %w", err)
		}
		if len(list) == 0 {
			return payload, fmt.Errorf("invalid monitor payload: empty array")
		}
		return list[0], nil
	}

	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return payload, fmt.Errorf("invalid monitor payload: %w", err)
	}

	return payload, nil
}

// Stream godoc
// @Summary Monitor websocket
// @Description Upgrades to a websocket that receives group-update and groups-sync frames
// @Tags whatsapp-monitor
// @Success 101
// @Router /whatsapp-monitor [get]
func (h *MonitorHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.Warnf("Monitor websocket upgrade failed: %v", err)
		return nil
	}

	viewer := h.hub.Subscribe()

	go h.writeLoop(conn, viewer)
	h.readLoop(conn, viewer)

	return nil
}

// readLoop discards client frames; it exists to process pongs and notice
// the disconnect.
func (h *MonitorHandler) readLoop(conn *websocket.Conn, viewer *relay.Viewer) {
	defer h.hub.Unsubscribe(viewer)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("Monitor viewer %s read error: %v", viewer.ID, err)
			}
			return
		}
	}
}

func (h *MonitorHandler) writeLoop(conn *websocket.Conn, viewer *relay.Viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-viewer.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.hub.Unsubscribe(viewer)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Unsubscribe(viewer)
				return
			}
		}
	}
}
