package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// FakeBackend is an httptest-backed stub of the remote API contract,
// used for transport-level tests of the session client and the auth
// session. It validates bearer tokens, rotates the access token on
// refresh, and counts calls per path.
type FakeBackend struct {
	mu sync.Mutex

	// Server is the underlying test server. Close it when done.
	Server *httptest.Server

	// Access is the currently valid access token.
	Access string

	// Refresh is the currently valid refresh token.
	Refresh string

	// Password accepted for the "alice" test account.
	Password string

	// FailRefresh makes the refresh endpoint reject every exchange.
	FailRefresh bool

	// RejectAll makes every authenticated endpoint return 401
	// regardless of the presented token.
	RejectAll bool

	// HangRefresh delays refresh responses, forcing concurrent
	// renewals to overlap.
	HangRefresh time.Duration

	// FailLogout makes the logout endpoint return a server error.
	FailLogout bool

	// Hang delays every response past any sane client timeout.
	Hang time.Duration

	// Tasks and Groups are returned verbatim from the list endpoints.
	Tasks  []map[string]any
	Groups []map[string]any

	calls map[string]int
}

// NewFakeBackend starts a stub backend with one valid session.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		Access:   "access-1",
		Refresh:  "refresh-1",
		Password: "secret",
		calls:    map[string]int{},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

// Close shuts the stub down.
func (b *FakeBackend) Close() { b.Server.Close() }

// URL returns the stub's base URL.
func (b *FakeBackend) URL() string { return b.Server.URL }

// Calls returns how many requests path received.
func (b *FakeBackend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// ExpireAccess invalidates the current access token, as the backend
// does when it ages out.
func (b *FakeBackend) ExpireAccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Access = "expired-" + b.Access
}

func (b *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls[r.URL.Path]++
	hang := b.Hang
	b.mu.Unlock()

	if hang > 0 {
		time.Sleep(hang)
	}

	switch {
	case r.URL.Path == "/login/":
		b.handleLogin(w, r)
	case r.URL.Path == "/register/":
		w.WriteHeader(http.StatusCreated)
	case r.URL.Path == "/token/refresh/":
		b.handleRefresh(w, r)
	case r.URL.Path == "/token/logout/":
		b.handleLogout(w, r)
	default:
		b.handleAuthenticated(w, r)
	}
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Username != "alice" || req.Password != b.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access":  b.Access,
		"refresh": b.Refresh,
	})
}

func (b *FakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	hang := b.HangRefresh
	b.mu.Unlock()
	if hang > 0 {
		time.Sleep(hang)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailRefresh || req.RefreshToken != b.Refresh {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	b.Access = "access-renewed"
	writeJSON(w, http.StatusOK, map[string]string{"access": b.Access})
}

func (b *FakeBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailLogout {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "logout failed"})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (b *FakeBackend) handleAuthenticated(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.URL.Path {
	case "/info/":
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "alice", "status": "active"})
	case "/todos/":
		writeJSON(w, http.StatusOK, b.Tasks)
	case "/groups/":
		writeJSON(w, http.StatusOK, b.Groups)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (b *FakeBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RejectAll {
		return false
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token != "" && token == b.Access
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
