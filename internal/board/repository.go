package board

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// StageRepository is the remote store for pipeline stages. The db package
// provides the PostgreSQL implementation; tests use in-memory fakes.
type StageRepository interface {
	ListStages(ctx context.Context) ([]types.DealStage, error)
	CreateStage(ctx context.Context, title string) (*types.DealStage, error)
	RenameStage(ctx context.Context, id uuid.UUID, title string) (*types.DealStage, error)
	DeleteStage(ctx context.Context, id uuid.UUID) error
}

// DealRepository is the remote store for deals, scoped to the board's
// needs: windowed listing and stage reassignment (single and batched).
type DealRepository interface {
	ListDealsSince(ctx context.Context, since time.Time) ([]types.Deal, error)
	UpdateDealStage(ctx context.Context, dealID uuid.UUID, stageID *uuid.UUID) (*types.Deal, error)
	UpdateDealStageMany(ctx context.Context, dealIDs []uuid.UUID, stageID *uuid.UUID) error
}
