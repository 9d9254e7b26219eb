package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/types"
)

func TestHandleGetBoard(t *testing.T) {
	s, _, deal := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/board", nil)
	w := httptest.NewRecorder()
	s.handleGetBoard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var view types.PipelineView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode board view: %v", err)
	}
	if len(view.Columns) != 1 {
		t.Fatalf("Expected 1 regular column, got %d", len(view.Columns))
	}
	if len(view.Columns[0].Deals) != 1 || view.Columns[0].Deals[0].ID != deal.ID {
		t.Errorf("Expected the seeded deal in the first column")
	}
	if view.Won == nil || view.Lost == nil {
		t.Error("Expected WON and LOST columns in the view")
	}
}

func dragJSON(t *testing.T, s *Server, body types.DragRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal drag request: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/board/drag", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	s.handleDrag(w, req)
	return w
}

func TestHandleDrag_MoveToUnassigned(t *testing.T) {
	s, _, deal := newTestServer(t)

	w := dragJSON(t, s, types.DragRequest{DealID: deal.ID, Target: "unassigned"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Deal     *types.Deal `json:"deal"`
		Finalize bool        `json:"finalize"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode drag response: %v", err)
	}
	if resp.Finalize {
		t.Error("Unassigned drop must not trigger the finalize flow")
	}
	if resp.Deal == nil || resp.Deal.StageID != nil {
		t.Errorf("Expected the deal to be unassigned, got %+v", resp.Deal)
	}
}

func TestHandleDrag_WonDropRequestsFinalize(t *testing.T) {
	s, _, deal := newTestServer(t)

	w := dragJSON(t, s, types.DragRequest{DealID: deal.ID, Target: "won"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Finalize bool `json:"finalize"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode drag response: %v", err)
	}
	if !resp.Finalize {
		t.Error("Expected a WON drop to trigger the finalize flow")
	}
}

func TestHandleDrag_InvalidTarget(t *testing.T) {
	s, _, deal := newTestServer(t)

	w := dragJSON(t, s, types.DragRequest{DealID: deal.ID, Target: "not-a-stage-id"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleDrag_UnknownDeal(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := dragJSON(t, s, types.DragRequest{DealID: uuid.New(), Target: "unassigned"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandleCreateStage(t *testing.T) {
	s, _, _ := newTestServer(t)

	payload, _ := json.Marshal(types.CreateStageRequest{Title: "Negotiation"})
	req := httptest.NewRequest("POST", "/api/stages", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	s.handleCreateStage(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var stage types.DealStage
	if err := json.NewDecoder(w.Body).Decode(&stage); err != nil {
		t.Fatalf("Failed to decode stage: %v", err)
	}
	if stage.Title != "Negotiation" {
		t.Errorf("Expected title Negotiation, got %q", stage.Title)
	}
	if len(s.board.View().Columns) != 2 {
		t.Errorf("Expected the new column on the board")
	}
}

func TestHandleCreateStage_RejectsBlankTitle(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/stages", bytes.NewReader([]byte(`{"title":""}`)))
	w := httptest.NewRecorder()
	s.handleCreateStage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleDeleteStage_NonEmptyColumnConflicts(t *testing.T) {
	s, stage, _ := newTestServer(t)

	req := httptest.NewRequest("DELETE", "/api/stages/"+stage.ID.String(), nil)
	req.SetPathValue("id", stage.ID.String())
	w := httptest.NewRecorder()
	s.handleDeleteStage(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 deleting a non-empty column, got %d", w.Code)
	}
}

func TestHandleClearStageThenDelete(t *testing.T) {
	s, stage, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/stages/"+stage.ID.String()+"/clear", nil)
	req.SetPathValue("id", stage.ID.String())
	w := httptest.NewRecorder()
	s.handleClearStage(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Clear failed: %d: %s", w.Code, w.Body.String())
	}

	var view types.PipelineView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}
	if len(view.Unassigned) != 1 {
		t.Errorf("Expected the deal back in the unassigned pool, got %d", len(view.Unassigned))
	}

	req = httptest.NewRequest("DELETE", "/api/stages/"+stage.ID.String(), nil)
	req.SetPathValue("id", stage.ID.String())
	w = httptest.NewRecorder()
	s.handleDeleteStage(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 deleting the cleared column, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleRenameStage_InvalidID(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("PUT", "/api/stages/not-a-uuid", bytes.NewReader([]byte(`{"title":"X"}`)))
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	s.handleRenameStage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a malformed stage ID, got %d", w.Code)
	}
}
