package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/types"
)

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.db.ListCompanies(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"companies": companies})
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	company, err := s.db.CreateCompany(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, company)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	company, err := s.db.GetCompany(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var req types.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	company, err := s.db.UpdateCompany(r.Context(), id, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

// handleListCompanyContacts lists the contacts belonging to a company.
func (s *Server) handleListCompanyContacts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	contacts, err := s.db.ListContacts(r.Context(), &id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"contacts": contacts})
}

// handleDeleteCompany removes a company and, via cascade, its contacts.
// Deals referencing the company keep it from being deleted.
func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	if err := s.db.DeleteCompany(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
