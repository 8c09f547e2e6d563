// Package identity talks to the external identity provider that handles
// the actual login flow. The browser lands back on the app with a one-time
// session identifier in the URL fragment; this client resolves that
// identifier into the user's profile exactly once.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidSession is returned when the provider rejects the session
// identifier: unknown, expired or already used upstream.
var ErrInvalidSession = errors.New("identity provider rejected session id")

// Profile is the provider's view of the authenticated user.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client resolves one-time session identifiers against the provider API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the given provider base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve exchanges a one-time session identifier for the user's profile.
// The identifier travels in a header, never in the URL, so it cannot leak
// through request logs. A 4xx answer means the identifier is invalid
// (ErrInvalidSession); anything else unexpected is a transient failure.
func (c *Client) Resolve(ctx context.Context, sessionID string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/auth/v1/session-data", nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Profile{}, ErrInvalidSession
	default:
		return Profile{}, fmt.Errorf("identity provider status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode identity profile: %w", err)
	}
	if p.ID == "" || p.Email == "" {
		return Profile{}, ErrInvalidSession
	}
	return p, nil
}
