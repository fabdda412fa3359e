package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a call still receives 401 after the
// single renewal-and-replay. Terminal: the caller must force logout.
var ErrUnauthorized = errors.New("unauthorized")

// ErrSessionExpired is returned when token renewal itself fails (no
// stored refresh token, or the refresh endpoint rejected it). Terminal:
// the caller must transition to unauthenticated.
var ErrSessionExpired = errors.New("session expired")

// TransportError reports a network-level failure, including timeouts.
// Never auto-retried beyond the one 401-triggered replay.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-2xx response other than the handled 401s,
// carrying the server-provided message when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}
