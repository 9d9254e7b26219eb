package types

// StageColumn is a stage with its materialized deals and value aggregate.
// Derived data: recomputed from the stage and deal caches, never mutated
// in place.
type StageColumn struct {
	Stage DealStage `json:"stage"`
	Deals []Deal    `json:"deals"`
	Sum   float64   `json:"sum"`
}

// PipelineView is the grouped-by-stage board: the unassigned bucket, the
// regular columns in stage order, and the WON/LOST terminal columns (nil
// when the corresponding stage is not configured).
type PipelineView struct {
	Unassigned    []Deal        `json:"unassigned"`
	UnassignedSum float64       `json:"unassigned_sum"`
	Columns       []StageColumn `json:"columns"`
	Won           *StageColumn  `json:"won"`
	Lost          *StageColumn  `json:"lost"`
}

// DealCount returns the total number of deals on the board.
func (v *PipelineView) DealCount() int {
	n := len(v.Unassigned)
	for _, col := range v.Columns {
		n += len(col.Deals)
	}
	if v.Won != nil {
		n += len(v.Won.Deals)
	}
	if v.Lost != nil {
		n += len(v.Lost.Deals)
	}
	return n
}
