// Package supabase talks to the Supabase Auth (GoTrue) HTTP API: the admin
// user endpoints and the published JWKS.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

type AdminClient struct {
	httpClient *resty.Client
	baseURL    string
}

type CreateUserParams struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type apiError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Text             string `json:"message"`
}

func (e apiError) String() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Text != "":
		return e.Text
	default:
		return e.ErrorDescription
	}
}

func NewAdminClient(cfg environments.SupabaseConfig) *AdminClient {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetLogger(logger.Resty{}).
		SetHeader("Content-Type", "application/json").
		SetHeader("apikey", cfg.ServiceRoleKey).
		SetAuthToken(cfg.ServiceRoleKey)

	return &AdminClient{
		httpClient: client,
		baseURL:    cfg.URL + "/auth/v1/admin/users",
	}
}

func (c *AdminClient) CreateUser(ctx context.Context, params CreateUserParams) (*AuthUser, error) {
	var user AuthUser
	var apiErr apiError

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(params).
		SetResult(&user).
		SetError(&apiErr).
		Post(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth user: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("auth creation failed (status %d): %s", resp.StatusCode(), apiErr.String())
	}

	if user.ID == "" {
		return nil, fmt.Errorf("auth user not created")
	}

	return &user, nil
}

func (c *AdminClient) DeleteUser(ctx context.Context, id string) error {
	var apiErr apiError

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiErr).
		Delete(c.baseURL + "/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}

	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("auth deletion failed (status %d): %s", resp.StatusCode(), apiErr.String())
	}

	return nil
}
