package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/board"
	"github.com/jmendez/crmboard/internal/types"
)

// stubStageRepo serves a fixed stage list and accepts all mutations.
type stubStageRepo struct {
	stages []types.DealStage
}

func (s *stubStageRepo) ListStages(context.Context) ([]types.DealStage, error) {
	out := make([]types.DealStage, len(s.stages))
	copy(out, s.stages)
	return out, nil
}

func (s *stubStageRepo) CreateStage(_ context.Context, title string) (*types.DealStage, error) {
	stage := types.DealStage{ID: uuid.New(), Title: title, CreatedAt: time.Now()}
	s.stages = append(s.stages, stage)
	return &stage, nil
}

func (s *stubStageRepo) RenameStage(_ context.Context, id uuid.UUID, title string) (*types.DealStage, error) {
	for i := range s.stages {
		if s.stages[i].ID == id {
			s.stages[i].Title = title
			return &s.stages[i], nil
		}
	}
	return nil, nil
}

func (s *stubStageRepo) DeleteStage(_ context.Context, id uuid.UUID) error {
	for i := range s.stages {
		if s.stages[i].ID == id {
			s.stages = append(s.stages[:i], s.stages[i+1:]...)
			return nil
		}
	}
	return nil
}

// stubDealRepo serves a fixed deal list and accepts all reassignments.
type stubDealRepo struct {
	deals []types.Deal
}

func (s *stubDealRepo) ListDealsSince(context.Context, time.Time) ([]types.Deal, error) {
	out := make([]types.Deal, len(s.deals))
	copy(out, s.deals)
	return out, nil
}

func (s *stubDealRepo) UpdateDealStage(_ context.Context, dealID uuid.UUID, stageID *uuid.UUID) (*types.Deal, error) {
	for i := range s.deals {
		if s.deals[i].ID == dealID {
			s.deals[i].StageID = stageID
			copied := s.deals[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubDealRepo) UpdateDealStageMany(_ context.Context, dealIDs []uuid.UUID, stageID *uuid.UUID) error {
	for _, id := range dealIDs {
		for i := range s.deals {
			if s.deals[i].ID == id {
				s.deals[i].StageID = stageID
			}
		}
	}
	return nil
}

// newTestBoard builds a refreshed board over stub repositories: one regular
// stage holding one deal, plus WON and LOST columns.
func newTestBoard(t *testing.T) (*board.Board, types.DealStage, types.Deal) {
	t.Helper()

	stage := types.DealStage{ID: uuid.New(), Title: "Qualification", CreatedAt: time.Now()}
	stageRepo := &stubStageRepo{stages: []types.DealStage{
		stage,
		{ID: uuid.New(), Title: types.StageTitleWon, CreatedAt: time.Now()},
		{ID: uuid.New(), Title: types.StageTitleLost, CreatedAt: time.Now()},
	}}

	deal := types.Deal{
		ID:        uuid.New(),
		Title:     "Acme renewal",
		Value:     1200,
		CreatedAt: time.Now(),
		StageID:   &stage.ID,
	}
	dealRepo := &stubDealRepo{deals: []types.Deal{deal}}

	b := board.New(board.NewStageStore(stageRepo), board.NewDealStore(dealRepo, time.Hour))
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Board refresh failed: %v", err)
	}
	return b, stage, deal
}

// newTestServer wires a Server around an in-memory board. The database is
// not connected, so only board-backed handlers may be exercised.
func newTestServer(t *testing.T) (*Server, types.DealStage, types.Deal) {
	t.Helper()

	b, stage, deal := newTestBoard(t)
	hub := NewEventHub(b)
	t.Cleanup(hub.Close)

	s := &Server{
		board: b,
		hub:   hub,
		drag:  board.NewDragController(b, hub, hub),
	}
	return s, stage, deal
}
