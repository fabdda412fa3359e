// Package api provides the session-aware HTTP client. Every remote call
// goes through Client, which attaches the bearer credential, detects
// 401s, renews the access token at most once per call (single-flight
// across concurrent callers), and replays the original request exactly
// once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"taskdeck/internal/credstore"
)

// DefaultTimeout bounds a single network round trip when the config
// does not override it.
const DefaultTimeout = 2 * time.Second

// Client is the session-aware HTTP client. It is the only writer of the
// access credential: the in-memory copy lives here, and renewals funnel
// through a single-flight group so concurrent 401s spend the refresh
// token once.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	creds   *credstore.Store
	device  string

	mu     sync.Mutex
	access string

	renew singleflight.Group
}

// New creates a session client for the given base URL. timeout bounds
// each round trip; zero selects DefaultTimeout.
func New(baseURL string, timeout time.Duration, creds *credstore.Store, deviceID string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		creds:   creds,
		device:  deviceID,
	}
}

// Device returns the device identity sent with session-scoped calls.
func (c *Client) Device() string { return c.device }

// SetAccessToken installs an access token in memory. Used at bootstrap
// (loading the persisted token) and after login.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.access = token
	c.mu.Unlock()
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access
}

// Call performs an authenticated JSON request. body is encoded as JSON
// when non-nil; the response is decoded into out when non-nil. On a 401
// the access token is renewed and the request replayed exactly once.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	return c.call(ctx, method, path, body, out, true, false)
}

// CallUnauthenticated performs a request without attaching credentials.
// Used for login, register, and the refresh exchange itself.
func (c *Client) CallUnauthenticated(ctx context.Context, method, path string, body, out any) error {
	return c.call(ctx, method, path, body, out, false, false)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, requiresAuth, replayed bool) error {
	var token string
	if requiresAuth {
		token = c.accessToken()
	}

	status, data, err := c.roundTrip(ctx, method, path, body, token)
	if err != nil {
		return &TransportError{Err: err}
	}

	if status == http.StatusUnauthorized && requiresAuth {
		if replayed {
			return ErrUnauthorized
		}
		if err := c.renewAccess(ctx, token); err != nil {
			return err
		}
		return c.call(ctx, method, path, body, out, true, true)
	}

	if status < 200 || status > 299 {
		return &APIError{Status: status, Message: serverMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// roundTrip performs one HTTP exchange with the bounded timeout,
// attaching token as the bearer credential when non-empty.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any, token string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// renewAccess exchanges the stored refresh token for a new access
// token. Concurrent callers share one in-flight exchange; refresh
// tokens are single-use-sensitive, so issuing duplicates would be a
// correctness bug, not just wasted traffic.
func (c *Client) renewAccess(ctx context.Context, stale string) error {
	_, err, _ := c.renew.Do("refresh", func() (any, error) {
		// Another caller may already have renewed the token that 401'd.
		if current := c.accessToken(); current != "" && current != stale {
			return nil, nil
		}

		refresh, err := c.creds.Get(credstore.KeyRefresh)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		if refresh == "" {
			return nil, ErrSessionExpired
		}

		var resp struct {
			Access string `json:"access"`
		}
		req := map[string]string{
			"refresh_token": refresh,
			"device_id":     c.device,
		}
		if err := c.CallUnauthenticated(ctx, http.MethodPost, "/token/refresh/", req, &resp); err != nil {
			return nil, fmt.Errorf("%w: refresh rejected", ErrSessionExpired)
		}
		if resp.Access == "" {
			return nil, fmt.Errorf("%w: empty access token", ErrSessionExpired)
		}

		c.SetAccessToken(resp.Access)
		if err := c.creds.Set(credstore.KeyAccess, resp.Access); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		return nil, nil
	})
	return err
}

// serverMessage extracts the error message the backend includes in
// failure bodies, if any.
func serverMessage(data []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	return body.Error
}
