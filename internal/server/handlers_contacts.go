package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/types"
)

// handleListContacts lists contacts, optionally filtered by ?company_id=.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	var companyID *uuid.UUID
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid company_id filter")
			return
		}
		companyID = &id
	}

	contacts, err := s.db.ListContacts(r.Context(), companyID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req types.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	contact, err := s.db.CreateContact(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, contact)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	contact, err := s.db.GetContact(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if contact == nil {
		s.errorResponse(w, http.StatusNotFound, "Contact not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var req types.UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	contact, err := s.db.UpdateContact(r.Context(), id, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if contact == nil {
		s.errorResponse(w, http.StatusNotFound, "Contact not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, contact)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := s.db.DeleteContact(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
