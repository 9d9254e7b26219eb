package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jmendez/crmboard/internal/types"
)

// handleGetBoard returns the current pipeline view: unassigned pool,
// regular columns in stage order, and the WON/LOST columns.
func (s *Server) handleGetBoard(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.board.View())
}

// handleRefreshBoard reloads stages and deals from the database.
func (s *Server) handleRefreshBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Refresh(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.board.View())
}

// handleDrag applies a drag-end gesture. The response carries the
// confirmed deal and whether the caller must open the finalize flow.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req types.DragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	deal, finalize, err := s.drag.HandleDragEnd(r.Context(), req.DealID, req.Target)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"deal":     deal,
		"finalize": finalize,
	})
}

// handleBoardEvents streams board changes and notifications as SSE.
func (s *Server) handleBoardEvents(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	events, cancel := s.hub.Register()
	defer cancel()

	// Initial snapshot so the client can render without a second request
	if err := sse.WriteEvent("board", s.board.View()); err != nil {
		return
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if err := sse.WriteHeartbeat(); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(ev.Name, ev.Data); err != nil {
				log.Printf("SSE write failed: %v", err)
				return
			}
		}
	}
}
