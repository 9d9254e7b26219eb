package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jmendez/crmboard/internal/config"
	"github.com/jmendez/crmboard/internal/session"
	"github.com/jmendez/crmboard/internal/types"
)

func newTestAuthHandler(t *testing.T, sessions SessionStore) *AuthHandler {
	t.Helper()
	svc, _ := newTestUserService()
	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	return NewAuthHandler(svc, jwtService, sessions)
}

func newTestSessionStore(t *testing.T) *session.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return session.NewRedisStoreWithClient(client)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeLoginResponse(t *testing.T, w *httptest.ResponseRecorder) types.LoginResponse {
	t.Helper()
	var resp types.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestAuthHandler_RegisterIssuesToken(t *testing.T) {
	h := newTestAuthHandler(t, nil)

	w := postJSON(t, h.Register, types.CreateUserRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeLoginResponse(t, w)
	if resp.Token == "" {
		t.Error("Expected a token in the register response")
	}
	if resp.RefreshToken != "" {
		t.Error("Expected no refresh token without a session store")
	}
	if resp.User == nil || resp.User.Email != "dana@example.com" {
		t.Errorf("Unexpected user in response: %+v", resp.User)
	}
}

func TestAuthHandler_RegisterValidatesInput(t *testing.T) {
	h := newTestAuthHandler(t, nil)

	w := postJSON(t, h.Register, types.CreateUserRequest{
		Name:     "Short",
		Email:    "short@example.com",
		Password: "2short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for short password, got %d", w.Code)
	}
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	h := newTestAuthHandler(t, nil)

	w := postJSON(t, h.Register, types.CreateUserRequest{
		Name: "Eve", Email: "eve@example.com", Password: "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Register failed: %d", w.Code)
	}

	w = postJSON(t, h.Login, types.LoginRequest{Email: "eve@example.com", Password: "nope-nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshWithoutSessionsIs404(t *testing.T) {
	h := newTestAuthHandler(t, nil)

	w := postJSON(t, h.Refresh, types.RefreshRequest{RefreshToken: "anything"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when refresh is disabled, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshRotatesToken(t *testing.T) {
	h := newTestAuthHandler(t, newTestSessionStore(t))

	w := postJSON(t, h.Register, types.CreateUserRequest{
		Name: "Frank", Email: "frank@example.com", Password: "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Register failed: %d: %s", w.Code, w.Body.String())
	}
	first := decodeLoginResponse(t, w)
	if first.RefreshToken == "" {
		t.Fatal("Expected a refresh token with a session store configured")
	}

	w = postJSON(t, h.Refresh, types.RefreshRequest{RefreshToken: first.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("Refresh failed: %d: %s", w.Code, w.Body.String())
	}
	second := decodeLoginResponse(t, w)
	if second.RefreshToken == "" || second.RefreshToken == first.RefreshToken {
		t.Error("Expected a fresh refresh token after rotation")
	}

	// The original token was revoked on use
	w = postJSON(t, h.Refresh, types.RefreshRequest{RefreshToken: first.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 reusing a rotated token, got %d", w.Code)
	}
}

func TestAuthHandler_LogoutRevokesSession(t *testing.T) {
	h := newTestAuthHandler(t, newTestSessionStore(t))

	w := postJSON(t, h.Register, types.CreateUserRequest{
		Name: "Gina", Email: "gina@example.com", Password: "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Register failed: %d", w.Code)
	}
	resp := decodeLoginResponse(t, w)

	w = postJSON(t, h.Logout, types.RefreshRequest{RefreshToken: resp.RefreshToken})
	if w.Code != http.StatusNoContent {
		t.Fatalf("Logout failed: %d", w.Code)
	}

	w = postJSON(t, h.Refresh, types.RefreshRequest{RefreshToken: resp.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 after logout, got %d", w.Code)
	}
}
