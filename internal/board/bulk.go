package board

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// ClearColumn bulk-reassigns every deal in the given column to unassigned,
// as one all-or-nothing batch. A drop on an empty column is a no-op.
func (b *Board) ClearColumn(ctx context.Context, stageID uuid.UUID) error {
	ids := b.columnDealIDs(stageID)
	if len(ids) == 0 {
		return nil
	}
	return b.deals.UpdateStageMany(ctx, ids, nil)
}

// DeleteStage removes a stage. The non-empty guard is enforced here, at
// the layer that can see both stores: a column that still holds deals is
// rejected before the store delete is invoked, so no deal is ever left
// with a dangling stage reference.
func (b *Board) DeleteStage(ctx context.Context, stageID uuid.UUID) error {
	if n := len(b.columnDealIDs(stageID)); n > 0 {
		return &ErrStageNotEmpty{StageID: stageID, Count: n}
	}
	return b.stages.Delete(ctx, stageID)
}

// AddStage creates a new stage, appended to the end of the regular column
// order.
func (b *Board) AddStage(ctx context.Context, title string) (*types.DealStage, error) {
	return b.stages.Create(ctx, title)
}

// columnDealIDs collects the deal ids in a column from the latest view.
func (b *Board) columnDealIDs(stageID uuid.UUID) []uuid.UUID {
	view := b.View()

	var match *types.StageColumn
	for i := range view.Columns {
		if view.Columns[i].Stage.ID == stageID {
			match = &view.Columns[i]
			break
		}
	}
	if match == nil && view.Won != nil && view.Won.Stage.ID == stageID {
		match = view.Won
	}
	if match == nil && view.Lost != nil && view.Lost.Stage.ID == stageID {
		match = view.Lost
	}
	if match == nil {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(match.Deals))
	for _, deal := range match.Deals {
		ids = append(ids, deal.ID)
	}
	return ids
}
