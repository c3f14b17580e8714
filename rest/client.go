// Package rest contains the thin proxies for the dashboard's own REST API:
// the servicios and usuarios resources. Proxies are stateless wrappers —
// validation and authorization live server-side; there is no retry and no
// pagination handling here.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the API's {message} error
// payload. When the body is not that shape, Message carries the raw text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.StatusCode)
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

// TokenSource yields the bearer token attached to every request, typically
// bound to the session store's current identity.
type TokenSource func() string

// Client is the shared HTTP plumbing for resource proxies.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *slog.Logger

	// onError fires for every failed request after logging; wired by the
	// engine into its proxy-error counter.
	onError func(err error)
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithClientLogger sets the proxy logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHook registers a callback fired on every proxy failure.
func WithErrorHook(hook func(error)) ClientOption {
	return func(c *Client) {
		c.onError = hook
	}
}

// NewClient creates a proxy client for baseURL. token may be nil for
// unauthenticated APIs.
func NewClient(baseURL string, timeout time.Duration, token TokenSource, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes a 2xx body into out (skipped when out is
// nil). Non-2xx responses are logged with context, reported through the error
// hook, and returned as [*APIError].
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = fmt.Errorf("%s %s: %w", method, path, err)
		c.fail(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
		c.logger.ErrorContext(ctx, "api request failed",
			"method", method, "path", path,
			"status", resp.StatusCode, "message", apiErr.Message)
		c.fail(apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("%s %s: decode response: %w", method, path, err)
		c.fail(err)
		return err
	}
	return nil
}

func (c *Client) fail(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

func readMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}
