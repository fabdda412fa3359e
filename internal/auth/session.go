// Package auth implements the session state machine: bootstrap, login,
// register, and logout over the session client.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskdeck/internal/api"
	"taskdeck/internal/credstore"
	"taskdeck/internal/service"
)

// State is the authentication state of the session.
type State int

const (
	// StateUnknown is the state before Bootstrap has run.
	StateUnknown State = iota

	// StateAuthenticated means a user has been resolved.
	StateAuthenticated

	// StateUnauthenticated means no usable session exists.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session owns the credential lifecycle. It is the only component that
// writes tokens to the store besides the client's renewal path.
type Session struct {
	client *api.Client
	creds  *credstore.Store

	state State
	user  service.User
}

// NewSession creates a session in the Unknown state.
func NewSession(client *api.Client, creds *credstore.Store) *Session {
	return &Session{client: client, creds: creds, state: StateUnknown}
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// CurrentUser returns the resolved user. Zero value unless authenticated.
func (s *Session) CurrentUser() service.User { return s.user }

// Bootstrap runs once at startup: it loads any persisted access token
// into the client and attempts to resolve the current user. Any
// failure, including the absence of a stored token, leaves the session
// Unauthenticated; Bootstrap itself never fails.
func (s *Session) Bootstrap(ctx context.Context) {
	token, err := s.creds.Get(credstore.KeyAccess)
	if err != nil || token == "" {
		s.state = StateUnauthenticated
		return
	}
	s.client.SetAccessToken(token)

	if err := s.resolveUser(ctx); err != nil {
		s.state = StateUnauthenticated
		return
	}
	s.state = StateAuthenticated
}

// Login authenticates with the remote service. Invalid credentials are
// reported as (false, nil), not an error, so callers can render an
// inline message. On success both tokens are persisted and the user is
// re-resolved before the session is declared authenticated.
func (s *Session) Login(ctx context.Context, username, password string, remember bool) (bool, error) {
	const op = "auth.Login"

	req := map[string]any{
		"username":    username,
		"password":    password,
		"remember_me": remember,
		"device_id":   s.client.Device(),
	}
	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	err := s.client.CallUnauthenticated(ctx, http.MethodPost, "/login/", req, &resp)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			s.state = StateUnauthenticated
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.creds.Set(credstore.KeyAccess, resp.Access); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.creds.Set(credstore.KeyRefresh, resp.Refresh); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.client.SetAccessToken(resp.Access)

	if err := s.resolveUser(ctx); err != nil {
		s.state = StateUnauthenticated
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.state = StateAuthenticated
	return true, nil
}

// Register creates an account. It does not authenticate; the caller is
// expected to log in afterwards.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	const op = "auth.Register"

	req := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	if err := s.client.CallUnauthenticated(ctx, http.MethodPost, "/register/", req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logout invalidates the server-side session for this device. Without a
// stored refresh token it is a no-op returning false. On remote failure
// the tokens are kept: the server session is not assumed gone, and
// deleting the tokens would orphan it silently.
func (s *Session) Logout(ctx context.Context) (bool, error) {
	const op = "auth.Logout"

	refresh, err := s.creds.Get(credstore.KeyRefresh)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if refresh == "" {
		return false, nil
	}

	req := map[string]string{
		"refresh_token": refresh,
		"device_id":     s.client.Device(),
	}
	if err := s.client.Call(ctx, http.MethodPost, "/token/logout/", req, nil); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.creds.Delete(credstore.KeyAccess); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.creds.Delete(credstore.KeyRefresh); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.client.SetAccessToken("")
	s.user = service.User{}
	s.state = StateUnauthenticated
	return true, nil
}

// Expire transitions to Unauthenticated after a terminal 401 or a
// failed renewal. Tokens are left in place; only a confirmed logout
// removes them.
func (s *Session) Expire() {
	s.client.SetAccessToken("")
	s.user = service.User{}
	s.state = StateUnauthenticated
}

// resolveUser fetches the current user from the info endpoint.
func (s *Session) resolveUser(ctx context.Context) error {
	var resp struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Status   string `json:"status"`
	}
	if err := s.client.Call(ctx, http.MethodGet, "/info/", nil, &resp); err != nil {
		return err
	}
	s.user = service.User{ID: resp.ID, Username: resp.Username, Status: resp.Status}
	return nil
}
