package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/middlewares"
	"github.com/opsalert/dispatch-console/pkg/response"
	validatorpkg "github.com/opsalert/dispatch-console/pkg/validator"
)

type fakeDispatchService struct {
	result *domain.DispatchResult
	record *domain.DispatchRecord
	err    error

	gotPrincipal domain.Principal
	gotReq       domain.DispatchRequest
	gotStatus    *domain.DispatchStatus
	gotPage      int
	gotPageSize  int
	gotID        string
}

func (s *fakeDispatchService) Dispatch(ctx context.Context, p domain.Principal, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	s.gotPrincipal = p
	s.gotReq = req
	return s.result, s.err
}

func (s *fakeDispatchService) ListLogs(ctx context.Context, p domain.Principal, status *domain.DispatchStatus, page, pageSize int) ([]domain.DispatchRecord, int64, error) {
	s.gotStatus = status
	s.gotPage = page
	s.gotPageSize = pageSize
	return []domain.DispatchRecord{{ID: "rec-1"}}, 21, s.err
}

func (s *fakeDispatchService) GetLog(ctx context.Context, p domain.Principal, id string) (*domain.DispatchRecord, error) {
	s.gotID = id
	return s.record, s.err
}

func (s *fakeDispatchService) GetStats(ctx context.Context, p domain.Principal) (*domain.DispatchStats, error) {
	return &domain.DispatchStats{Pending: 1, Total: 1}, s.err
}

var operator = domain.Principal{ID: "user-1", Email: "op@example.com", TenantID: "tenant-1"}

func newAuthedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validatorpkg.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	middlewares.SetPrincipal(c, operator)
	return c, rec
}

// TestSendMessage_BadJSON verifies that invalid JSON returns 400 Bad Request.
func TestSendMessage_BadJSON(t *testing.T) {
	handler := NewMessageHandler(&fakeDispatchService{})

	// Malformed JSON (missing closing quote / brace)
	c, rec := newAuthedContext(http.MethodPost, "/api/v1/messages/send", `{"mensagem": "Hello", "tipo":`)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var resp response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

// TestSendMessage_InvalidTipo verifies that validation failure returns 422.
func TestSendMessage_InvalidTipo(t *testing.T) {
	svc := &fakeDispatchService{}
	handler := NewMessageHandler(svc)

	c, rec := newAuthedContext(http.MethodPost, "/api/v1/messages/send", `{"mensagem": "X", "tipo": "SPAM", "regional": "SUL"}`)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}

	var resp validatorpkg.ValidationErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if _, ok := resp.Details["tipo"]; !ok {
		t.Fatalf("expected Details to contain 'tipo' key, got %v", resp.Details)
	}
	if svc.gotReq.Mensagem != "" {
		t.Fatalf("service must not be called on validation failure")
	}
}

func TestSendMessage_Success(t *testing.T) {
	created := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	svc := &fakeDispatchService{result: &domain.DispatchResult{
		ID:        "rec-1",
		Status:    domain.StatusSuccess,
		Protocolo: "EXT-1",
		CreatedAt: created,
	}}
	handler := NewMessageHandler(svc)

	c, rec := newAuthedContext(http.MethodPost, "/api/v1/messages/send",
		`{"regional": ["A","B"], "mensagem": "X", "tipo": "MASSIVO", "telefone": "00000000000"}`)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if body["id"] != "rec-1" || body["status"] != "SUCCESS" || body["protocolo"] != "EXT-1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["created_at"] != "2025-03-01T15:00:00Z" {
		t.Fatalf("unexpected created_at: %v", body["created_at"])
	}

	if svc.gotPrincipal != operator {
		t.Fatalf("expected principal to reach the service, got %+v", svc.gotPrincipal)
	}
	if !svc.gotReq.Regional.IsList || len(svc.gotReq.Regional.List) != 2 {
		t.Fatalf("expected list regional, got %+v", svc.gotReq.Regional)
	}
}

func TestSendMessage_DispatchFailureReturns500(t *testing.T) {
	svc := &fakeDispatchService{err: errors.New("webhook dispatch failed after 2 attempts: timeout")}
	handler := NewMessageHandler(svc)

	c, rec := newAuthedContext(http.MethodPost, "/api/v1/messages/send", `{"mensagem": "X", "tipo": "ALERTA"}`)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp response.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp.Error, "2 attempts") {
		t.Fatalf("expected upstream message in error, got %q", resp.Error)
	}
}

func TestSendMessage_WithoutPrincipalReturns401(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/send", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewMessageHandler(&fakeDispatchService{}).SendMessage(c); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestGetLogs_PaginationAndStatus(t *testing.T) {
	svc := &fakeDispatchService{}
	handler := NewMessageHandler(svc)

	c, rec := newAuthedContext(http.MethodGet, "/api/v1/logs?page=2&pageSize=10&status=FAILED", "")

	if err := handler.GetLogs(c); err != nil {
		t.Fatalf("GetLogs returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.gotPage != 2 || svc.gotPageSize != 10 {
		t.Fatalf("unexpected pagination: page=%d size=%d", svc.gotPage, svc.gotPageSize)
	}
	if svc.gotStatus == nil || *svc.gotStatus != domain.StatusFailed {
		t.Fatalf("expected FAILED filter, got %v", svc.gotStatus)
	}

	var body response.PaginatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if body.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", body.TotalPages)
	}
}

func TestGetLogs_InvalidParams(t *testing.T) {
	handler := NewMessageHandler(&fakeDispatchService{})

	for _, target := range []string{
		"/api/v1/logs?page=0",
		"/api/v1/logs?pageSize=1000",
		"/api/v1/logs?status=sent",
	} {
		c, rec := newAuthedContext(http.MethodGet, target, "")
		if err := handler.GetLogs(c); err != nil {
			t.Fatalf("GetLogs returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestGetLog(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeDispatchService{record: &domain.DispatchRecord{ID: "rec-1", Status: domain.StatusPending}}
		handler := NewMessageHandler(svc)

		c, rec := newAuthedContext(http.MethodGet, "/api/v1/logs/rec-1", "")
		c.SetParamNames("id")
		c.SetParamValues("rec-1")

		if err := handler.GetLog(c); err != nil {
			t.Fatalf("GetLog returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.gotID != "rec-1" {
			t.Fatalf("expected id param to reach the service, got %q", svc.gotID)
		}
	})

	t.Run("other tenant or missing", func(t *testing.T) {
		handler := NewMessageHandler(&fakeDispatchService{})

		c, rec := newAuthedContext(http.MethodGet, "/api/v1/logs/rec-9", "")
		c.SetParamNames("id")
		c.SetParamValues("rec-9")

		if err := handler.GetLog(c); err != nil {
			t.Fatalf("GetLog returned error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}
