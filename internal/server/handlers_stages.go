package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/types"
)

// handleListStages returns pipeline stages with deal counts and value totals.
func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.ListStageSummaries(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"stages": summaries})
}

func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	var req types.CreateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	stage, err := s.board.AddStage(r.Context(), req.Title)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, stage)
}

func (s *Server) handleRenameStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid stage ID")
		return
	}

	var req types.UpdateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	stage, err := s.board.Stages().Rename(r.Context(), id, req.Title)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, stage)
}

// handleDeleteStage removes a stage. Non-empty columns are rejected so the
// caller must clear the column first.
func (s *Server) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid stage ID")
		return
	}

	if err := s.board.DeleteStage(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearStage moves every deal in the column back to the unassigned pool.
func (s *Server) handleClearStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid stage ID")
		return
	}

	if err := s.board.ClearColumn(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.board.View())
}
