package server

import (
	"net/http"

	"github.com/jmendez/crmboard/internal/server/middleware"
	"github.com/jmendez/crmboard/internal/types"
)

// handleListUsers returns all users for owner-assignment pickers.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	dbUsers, err := s.db.ListUsers(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	users := make([]types.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, *convertDBUserToTypesUser(&dbUsers[i]))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"users": users})
}

// handleGetMe returns the authenticated user's profile.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := s.userService.GetByID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}
