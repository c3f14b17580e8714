// Package provider wraps the hosted authentication and profile backend. It
// exposes narrow interfaces so the engine can be tested against stubs, plus
// HTTP implementations for the real service (password-grant token endpoint
// and a row-filtered REST data API).
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrSignInDenied covers every provider-side sign-in failure. The UI shows
// one generic message; wrong password and unreachable backend are not
// distinguished at this layer.
var ErrSignInDenied = errors.New("sign in denied")

// ErrRowNotFound is returned by directory lookups with no matching row.
var ErrRowNotFound = errors.New("row not found")

// Session is the minimal result of a successful sign-in: a bearer token and
// a stable user identifier, plus whatever identity basics the provider
// returns alongside.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
	CreatedAt   time.Time
}

// AuthProvider verifies credentials and issues sessions. Implementations
// must return an error reason on failure, never a partial session.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Directory looks up the profile and salon rows that flesh out an identity.
// Rows are loosely typed: the backend adds columns without notice.
type Directory interface {
	ProfileByUserID(ctx context.Context, userID string) (map[string]any, error)
	SalonByID(ctx context.Context, salonID string) (map[string]any, error)
}

// Client talks to a hosted auth+data backend over HTTP. One Client serves
// both the [AuthProvider] and [Directory] interfaces.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a provider client for baseURL. apiKey is sent on every
// request; timeout bounds each call.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"user"`
}

// SignInWithPassword exchanges credentials for a session via the password
// grant endpoint.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignInDenied, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrSignInDenied, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSignInDenied, err)
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return nil, fmt.Errorf("%w: incomplete session in response", ErrSignInDenied)
	}

	return &Session{
		AccessToken: tr.AccessToken,
		UserID:      tr.User.ID,
		Email:       tr.User.Email,
		CreatedAt:   tr.User.CreatedAt,
	}, nil
}

// SignOut revokes the session behind accessToken. A 2xx or 404 both count as
// signed out; anything else is reported to the caller, who treats it as best
// effort.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("sign out: provider returned status %d", resp.StatusCode)
	}
	return nil
}

// ProfileByUserID fetches the profile row keyed by the auth user id.
func (c *Client) ProfileByUserID(ctx context.Context, userID string) (map[string]any, error) {
	return c.singleRow(ctx, "perfil_usuarios", userID)
}

// SalonByID fetches the salon row referenced by a profile's foreign key.
func (c *Client) SalonByID(ctx context.Context, salonID string) (map[string]any, error) {
	return c.singleRow(ctx, "peluquerias", salonID)
}

func (c *Client) singleRow(ctx context.Context, table, id string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?id=eq.%s&select=*",
		c.baseURL, table, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup %s: status %d", table, resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("lookup %s: decode: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("lookup %s id=%s: %w", table, id, ErrRowNotFound)
	}
	return rows[0], nil
}
