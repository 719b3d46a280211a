package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
	"github.com/opsalert/dispatch-console/pkg/signature"
)

const (
	HeaderSecret    = "X-Secret"
	HeaderSignature = "X-Signature"

	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 2
)

// ErrRedirectMisconfigured is returned when the endpoint answers 308, which
// means the configured URL is wrong. It is never retried.
var ErrRedirectMisconfigured = errors.New("webhook endpoint answered 308 Permanent Redirect; check the configured URL")

// DispatchError is returned when every attempt failed.
type DispatchError struct {
	Attempts int
	Err      error
}

func (e *DispatchError) Error() string {
	noun := "attempts"
	if e.Attempts == 1 {
		noun = "attempt"
	}
	return fmt.Sprintf("webhook dispatch failed after %d %s: %v", e.Attempts, noun, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

type Client struct {
	httpClient  *resty.Client
	webhookURL  string
	secret      string
	maxAttempts int
	retryDelay  time.Duration
}

func NewWebhookClient(cfg environments.WebhookConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	retryDelay := cfg.RetryDelay
	if retryDelay < 0 {
		retryDelay = 0
	}

	client := resty.New().
		SetTimeout(timeout).
		SetLogger(logger.Resty{}).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(HeaderSecret, cfg.Secret)

	return &Client{
		httpClient:  client,
		webhookURL:  cfg.URL,
		secret:      cfg.Secret,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Dispatch posts payload to the configured URL, retrying transport failures
// and non 2xx/3xx answers up to the configured attempt count.
func (c *Client) Dispatch(ctx context.Context, payload any) (*domain.WebhookResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	sig := signature.Sign(c.secret, body)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, err := c.post(ctx, body, sig)
		if err == nil {
			webhookAttempts.WithLabelValues("success").Inc()
			return result, nil
		}

		if errors.Is(err, ErrRedirectMisconfigured) {
			webhookAttempts.WithLabelValues("redirect").Inc()
			logger.Errorf("Webhook %s is misconfigured: %v", c.webhookURL, err)
			return nil, &DispatchError{Attempts: attempt, Err: err}
		}

		webhookAttempts.WithLabelValues("failure").Inc()
		lastErr = err
		logger.Warnf("Webhook attempt %d/%d failed: %v", attempt, c.maxAttempts, err)

		if attempt == c.maxAttempts {
			break
		}

		if err := c.wait(ctx); err != nil {
			return nil, &DispatchError{
				Attempts: attempt,
				Err:      fmt.Errorf("retry aborted: %w (last error: %v)", err, lastErr),
			}
		}
	}

	return nil, &DispatchError{Attempts: c.maxAttempts, Err: lastErr}
}

func (c *Client) post(ctx context.Context, body []byte, sig string) (*domain.WebhookResult, error) {
	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader(HeaderSignature, sig).
		SetBody(body).
		Post(c.webhookURL)

	duration := time.Since(startTime)
	webhookDuration.Observe(duration.Seconds())

	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("Webhook request to %s completed in %v (status: %d)", c.webhookURL, duration, resp.StatusCode())

	status := resp.StatusCode()
	if status == http.StatusPermanentRedirect {
		return nil, fmt.Errorf("%w (location: %q)", ErrRedirectMisconfigured, resp.Header().Get("Location"))
	}

	if status < 200 || status >= 400 {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", status, resp.String())
	}

	return &domain.WebhookResult{
		StatusCode: status,
		Body:       resp.Body(),
		Protocol:   ExtractProtocol(resp.Body()),
	}, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.retryDelay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExtractProtocol reads the first non-empty of protocolo, protocol and id
// from a JSON object body. Numbers are rendered in decimal.
func ExtractProtocol(body []byte) string {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return ""
	}

	for _, key := range []string{"protocolo", "protocol", "id"} {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return ""
}

func (c *Client) GetURL() string {
	return c.webhookURL
}
