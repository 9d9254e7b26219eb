package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/types"
)

// handleListDeals returns the deals inside the board's rolling window,
// optionally filtered by ?company_id= and ?stage_id=.
func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -s.windowDays)
	deals, err := s.db.ListDealsSince(r.Context(), since)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	if raw := query.Get("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid company_id filter")
			return
		}
		deals = filterDeals(deals, func(d types.Deal) bool { return d.CompanyID == companyID })
	}
	if raw := query.Get("stage_id"); raw != "" {
		stageID, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid stage_id filter")
			return
		}
		deals = filterDeals(deals, func(d types.Deal) bool {
			return d.StageID != nil && *d.StageID == stageID
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"deals": deals})
}

func filterDeals(deals []types.Deal, keep func(types.Deal) bool) []types.Deal {
	out := deals[:0]
	for _, d := range deals {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// handleCreateDeal creates a deal, creating the contact inline first when the
// request names one instead of referencing an existing contact.
func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	var req types.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.DealContactID == nil && req.ContactName != "" {
		contact, err := s.db.CreateContact(r.Context(), &types.CreateContactRequest{
			Name:         req.ContactName,
			Email:        req.ContactEmail,
			CompanyID:    req.CompanyID,
			SalesOwnerID: req.DealOwnerID,
		})
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		req.DealContactID = &contact.ID
	}

	deal, err := s.db.CreateDeal(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.refreshBoard(r.Context())
	s.jsonResponse(w, http.StatusCreated, deal)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	deal, err := s.db.GetDeal(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deal == nil {
		s.errorResponse(w, http.StatusNotFound, "Deal not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, deal)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req types.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	deal, err := s.db.UpdateDeal(r.Context(), id, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.refreshBoard(r.Context())
	s.jsonResponse(w, http.StatusOK, deal)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	if err := s.db.DeleteDeal(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.refreshBoard(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleFinalizeDeal records the closing notes and close date after a deal
// was dropped onto a terminal column.
func (s *Server) handleFinalizeDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimPathID(r))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req types.FinalizeDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	deal, err := s.db.FinalizeDeal(r.Context(), id, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.refreshBoard(r.Context())
	s.jsonResponse(w, http.StatusOK, deal)
}

// refreshBoard reloads the board caches after a write that bypassed them.
func (s *Server) refreshBoard(ctx context.Context) {
	if err := s.board.Refresh(ctx); err != nil {
		log.Printf("board refresh failed: %v", err)
	}
}
