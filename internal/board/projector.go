package board

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// Project derives the grouped-by-stage pipeline view from a stage list and
// a deal list. It is pure and stateless: callers re-run it in full on every
// input change (data volumes are bounded by the rolling window).
//
// Every deal lands in exactly one bucket: unassigned (nil stage id), the
// column whose stage id it references, or the WON/LOST terminal columns.
// A deal whose stage id matches no stage in the list is omitted from the
// view entirely; stage deletion moves orphans to unassigned first, so
// this only occurs on inconsistent external data.
// Columns are sorted by deal created_at ascending with input order
// preserved on ties; sums treat a zero value as zero contribution.
func Project(stages []types.DealStage, deals []types.Deal) *types.PipelineView {
	view := &types.PipelineView{
		Unassigned: []types.Deal{},
		Columns:    []types.StageColumn{},
	}

	byStage := make(map[uuid.UUID][]types.Deal, len(stages))
	for _, deal := range deals {
		if deal.StageID == nil {
			view.Unassigned = append(view.Unassigned, deal)
			continue
		}
		byStage[*deal.StageID] = append(byStage[*deal.StageID], deal)
	}

	sortByCreatedAt(view.Unassigned)
	view.UnassignedSum = sumValues(view.Unassigned)

	for _, stage := range stages {
		column := types.StageColumn{
			Stage: stage,
			Deals: byStage[stage.ID],
			Sum:   0,
		}
		if column.Deals == nil {
			column.Deals = []types.Deal{}
		}
		sortByCreatedAt(column.Deals)
		column.Sum = sumValues(column.Deals)

		switch stage.Title {
		case types.StageTitleWon:
			if view.Won == nil {
				view.Won = &column
			}
		case types.StageTitleLost:
			if view.Lost == nil {
				view.Lost = &column
			}
		default:
			view.Columns = append(view.Columns, column)
		}
	}

	return view
}

func sortByCreatedAt(deals []types.Deal) {
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].CreatedAt.Before(deals[j].CreatedAt)
	})
}

func sumValues(deals []types.Deal) float64 {
	var sum float64
	for _, deal := range deals {
		sum += deal.Value
	}
	return sum
}
