// Package server provides the HTTP REST API for the sales pipeline board.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/session"
	"github.com/jmendez/crmboard/internal/types"
)

// SessionStore stores refresh sessions. Nil disables the refresh flow.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	sessions    SessionStore
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// sessions may be nil, in which case refresh tokens are not issued.
func NewAuthHandler(userService *UserService, jwtService *JWTService, sessions SessionStore) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		sessions:    sessions,
		validator:   validator.New(),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	h.writeLoginResponse(w, r, user, http.StatusCreated)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	h.writeLoginResponse(w, r, user, http.StatusOK)
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token is revoked, so each token can be used at most once.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		http.Error(w, "Refresh tokens not enabled", http.StatusNotFound)
		return
	}

	var req types.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	tokenHash := session.HashToken(req.RefreshToken)
	userID, err := h.sessions.LookupRefreshSession(r.Context(), tokenHash)
	if err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	_ = h.sessions.RevokeRefreshSession(r.Context(), tokenHash)

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	h.writeLoginResponse(w, r, user, http.StatusOK)
}

// Logout revokes the caller's refresh token, if any.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req types.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if h.sessions != nil {
		_ = h.sessions.RevokeRefreshSession(r.Context(), session.HashToken(req.RefreshToken))
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePasswordWithUserID handles password update requests with an explicit user ID.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	response := map[string]string{
		"message": "Password updated successfully",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error but response already sent
		return
	}
}

// writeLoginResponse issues the token pair and writes the response body.
func (h *AuthHandler) writeLoginResponse(w http.ResponseWriter, r *http.Request, user *types.User, status int) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := types.LoginResponse{
		User:  user,
		Token: token,
	}

	if h.sessions != nil {
		refreshToken, err := session.NewToken()
		if err != nil {
			http.Error(w, "Failed to generate refresh token", http.StatusInternalServerError)
			return
		}
		expiresAt := time.Now().Add(session.DefaultTTL)
		if err := h.sessions.SaveRefreshSession(r.Context(), session.HashToken(refreshToken), user.ID, expiresAt); err != nil {
			http.Error(w, "Failed to store refresh session", http.StatusInternalServerError)
			return
		}
		response.RefreshToken = refreshToken
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error but response already sent
		return
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
