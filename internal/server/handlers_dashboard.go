package server

import (
	"net/http"

	"github.com/jmendez/crmboard/internal/types"
)

// handleDealsChart returns monthly won/lost totals for the dashboard chart.
func (s *Server) handleDealsChart(w http.ResponseWriter, r *http.Request) {
	won, err := s.db.DealsChartByStage(r.Context(), types.StageTitleWon)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	lost, err := s.db.DealsChartByStage(r.Context(), types.StageTitleLost)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"won":  won,
		"lost": lost,
	})
}

// handleDashboardTotals returns headline entity counts plus per-stage deal
// counts and value sums.
func (s *Server) handleDashboardTotals(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.CountEntities(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	summaries, err := s.db.ListStageSummaries(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"counts": counts,
		"stages": summaries,
	})
}
