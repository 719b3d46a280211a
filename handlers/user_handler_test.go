package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/repository"
	"github.com/opsalert/dispatch-console/pkg/response"
)

type fakeUserService struct {
	user   *domain.User
	err    error
	gotReq domain.RegisterUserRequest
	gotID  string
	active *bool
}

func (s *fakeUserService) List(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	if s.user == nil {
		return nil, s.err
	}
	return []domain.User{*s.user}, s.err
}

func (s *fakeUserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *fakeUserService) SetActive(ctx context.Context, p domain.Principal, id string, ativo bool) (*domain.User, error) {
	s.gotID = id
	s.active = &ativo
	return s.user, s.err
}

func (s *fakeUserService) Register(ctx context.Context, p domain.Principal, req domain.RegisterUserRequest) (*domain.User, error) {
	s.gotReq = req
	return s.user, s.err
}

func TestRegisterUser_Created(t *testing.T) {
	svc := &fakeUserService{user: &domain.User{ID: "u-2", Nome: "Ana", TenantID: "tenant-1", Ativo: true}}
	handler := NewUserHandler(svc)

	c, rec := newAuthedContext(http.MethodPost, "/api/v1/users/register",
		`{"nome":"Ana","email":"ana@example.com","password":"secret1","role":"OPERADOR","regional":"SUL"}`)

	if err := handler.RegisterUser(c); err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.gotReq.Email != "ana@example.com" || svc.gotReq.Role != domain.RoleOperador {
		t.Fatalf("unexpected request forwarded: %+v", svc.gotReq)
	}
}

func TestRegisterUser_ValidationFailure(t *testing.T) {
	handler := NewUserHandler(&fakeUserService{})

	c, rec := newAuthedContext(http.MethodPost, "/api/v1/users/register",
		`{"nome":"Ana","email":"not-an-email","password":"123","role":"ROOT","regional":"SUL"}`)

	if err := handler.RegisterUser(c); err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	details, _ := body["details"].(map[string]any)
	for _, field := range []string{"email", "password", "role"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected details to contain %q, got %v", field, details)
		}
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc := &fakeUserService{}
	handler := NewUserHandler(svc)

	c, rec := newAuthedContext(http.MethodGet, "/api/v1/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.GetUser(c); err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if svc.gotID != "missing" {
		t.Fatalf("expected id param to reach the service, got %q", svc.gotID)
	}
}

func TestSetUserActive(t *testing.T) {
	t.Run("deactivates", func(t *testing.T) {
		svc := &fakeUserService{user: &domain.User{ID: "u-2", Ativo: false}}
		handler := NewUserHandler(svc)

		c, rec := newAuthedContext(http.MethodPatch, "/api/v1/users/u-2/active", `{"ativo": false}`)
		c.SetParamNames("id")
		c.SetParamValues("u-2")

		if err := handler.SetUserActive(c); err != nil {
			t.Fatalf("SetUserActive returned error: %v", err)
		}

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.active == nil || *svc.active {
			t.Fatalf("expected ativo=false to reach the service")
		}
	})

	t.Run("missing ativo", func(t *testing.T) {
		handler := NewUserHandler(&fakeUserService{})

		c, rec := newAuthedContext(http.MethodPatch, "/api/v1/users/u-2/active", `{}`)
		c.SetParamNames("id")
		c.SetParamValues("u-2")

		_ = handler.SetUserActive(c)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := &fakeUserService{err: fmt.Errorf("set active: %w", repository.ErrUserNotFound)}
		handler := NewUserHandler(svc)

		c, rec := newAuthedContext(http.MethodPatch, "/api/v1/users/nope/active", `{"ativo": true}`)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		_ = handler.SetUserActive(c)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}

		var resp response.ErrorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Error != "User not found" {
			t.Fatalf("unexpected error message: %q", resp.Error)
		}
	})
}
