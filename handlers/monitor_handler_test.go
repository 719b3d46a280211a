package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/relay"
)

func postWebhook(t *testing.T, h *MonitorHandler, body string) (*httptest.ResponseRecorder, MonitorWebhookResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/whatsapp-monitor/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Webhook(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Webhook returned error: %v", err)
	}

	var resp MonitorWebhookResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func nextFrame(t *testing.T, v *relay.Viewer) relay.Frame {
	t.Helper()

	select {
	case msg := <-v.Messages():
		var f relay.Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			t.Fatalf("failed to decode frame: %v", err)
		}
		return f
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for frame")
		return relay.Frame{}
	}
}

func TestWebhook_SingleUpdate(t *testing.T) {
	hub := relay.NewHub(4)
	viewer := hub.Subscribe()
	h := NewMonitorHandler(hub, []string{"*"})

	rec, resp := postWebhook(t, h, `{"groupId":"g1","groupName":"NOC","sender":"ana","message":"link down"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !resp.Success || resp.Message != "Update broadcasted" || resp.GroupID != "g1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	f := nextFrame(t, viewer)
	if f.Event != relay.EventGroupUpdate {
		t.Fatalf("expected group-update, got %q", f.Event)
	}

	var u domain.GroupStatusUpdate
	_ = json.Unmarshal(f.Data, &u)
	if u.LastMessage == nil || u.LastMessage.Content != "link down" || len(u.RecentMessages) != 1 {
		t.Fatalf("expected normalized message, got %+v", u)
	}
	if u.Status != domain.GroupActive {
		t.Fatalf("expected default status active, got %q", u.Status)
	}
}

func TestWebhook_ArrayUsesFirstElement(t *testing.T) {
	hub := relay.NewHub(4)
	viewer := hub.Subscribe()
	h := NewMonitorHandler(hub, []string{"*"})

	_, resp := postWebhook(t, h, `[{"groupId":"first","groupName":"A"},{"groupId":"second","groupName":"B"}]`)

	if resp.GroupID != "first" {
		t.Fatalf("expected first element to be used, got %q", resp.GroupID)
	}
	if f := nextFrame(t, viewer); f.Event != relay.EventGroupUpdate {
		t.Fatalf("expected group-update, got %q", f.Event)
	}
}

func TestWebhook_SyncBroadcastsGroups(t *testing.T) {
	hub := relay.NewHub(4)
	viewer := hub.Subscribe()
	h := NewMonitorHandler(hub, []string{"*"})

	_, resp := postWebhook(t, h, `{"eventType":"sync","groups":[{"groupId":"g1","groupName":"A"},{"groupId":"g2","groupName":"B"}]}`)

	if !resp.Success || resp.Message != "Groups synced" || resp.Count == nil || *resp.Count != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	f := nextFrame(t, viewer)
	if f.Event != relay.EventGroupsSync {
		t.Fatalf("expected groups-sync, got %q", f.Event)
	}

	var groups []domain.GroupStatusUpdate
	_ = json.Unmarshal(f.Data, &groups)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}

func TestWebhook_MalformedJSONReturns400(t *testing.T) {
	h := NewMonitorHandler(relay.NewHub(1), []string{"*"})

	rec, _ := postWebhook(t, h, `{"groupId":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	rec, _ = postWebhook(t, h, `[]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty array, got %d", rec.Code)
	}
}

func TestStream_ViewerReceivesOnlyLaterEvents(t *testing.T) {
	hub := relay.NewHub(4)
	h := NewMonitorHandler(hub, []string{"*"})

	e := echo.New()
	e.GET("/whatsapp-monitor", h.Stream)
	srv := httptest.NewServer(e)
	defer srv.Close()

	// Broadcast before anyone is connected: must not be replayed.
	if _, err := hub.BroadcastGroupUpdate(domain.GroupStatusUpdate{GroupID: "before"}); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/whatsapp-monitor"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("viewer never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := hub.BroadcastGroupsSync([]json.RawMessage{
		json.RawMessage(`{"groupId":"g1"}`),
		json.RawMessage(`{"groupId":"g2"}`),
		json.RawMessage(`{"groupId":"g3"}`),
	}); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f relay.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if f.Event != relay.EventGroupsSync {
		t.Fatalf("expected groups-sync as the first frame, got %q", f.Event)
	}

	var groups []map[string]any
	_ = json.Unmarshal(f.Data, &groups)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	deadline = time.Now().Add(2 * time.Second)
	for hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("viewer was not unsubscribed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStream_RejectsUnknownOrigin(t *testing.T) {
	hub := relay.NewHub(4)
	h := NewMonitorHandler(hub, []string{"https://console.example.com"})

	e := echo.New()
	e.GET("/whatsapp-monitor", h.Stream)
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/whatsapp-monitor"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		t.Fatalf("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
	if hub.Count() != 0 {
		t.Fatalf("rejected viewer must not subscribe")
	}
}
