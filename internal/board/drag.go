package board

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// FinalizeResource is the route entered after a terminal drop, where the
// closing metadata (notes, close date) is collected.
const FinalizeResource = "finalize-deals"

// DropTargetKind tags the drop-target union. The pseudo-identifiers are
// parsed into distinct kinds up front so a real stage id can never collide
// with "won", "lost" or "unassigned".
type DropTargetKind int

// Drop target kinds.
const (
	TargetStage DropTargetKind = iota
	TargetWon
	TargetLost
	TargetUnassigned
)

// DropTarget is a parsed drop-target token.
type DropTarget struct {
	Kind    DropTargetKind
	StageID uuid.UUID // set only for TargetStage
}

// Terminal reports whether the target is the won or lost area.
func (t DropTarget) Terminal() bool {
	return t.Kind == TargetWon || t.Kind == TargetLost
}

// ParseDropTarget parses a drop-target token: the reserved tokens "won",
// "lost" and "unassigned", or a stage id used verbatim.
func ParseDropTarget(token string) (DropTarget, error) {
	switch token {
	case "won":
		return DropTarget{Kind: TargetWon}, nil
	case "lost":
		return DropTarget{Kind: TargetLost}, nil
	case "unassigned":
		return DropTarget{Kind: TargetUnassigned}, nil
	}
	id, err := uuid.Parse(token)
	if err != nil {
		return DropTarget{}, &ErrInvalidDropTarget{Token: token}
	}
	return DropTarget{Kind: TargetStage, StageID: id}, nil
}

type gestureState int

const (
	gestureIdle gestureState = iota
	gestureDragging
)

// DragController runs the drag gesture state machine: idle, dragging, and
// drop resolution. A drop on the current stage is a no-op; a terminal drop
// routes to the finalize flow on success; a failed mutation rolls back the
// optimistic state and notifies exactly once.
type DragController struct {
	board     *Board
	notifier  Notifier
	navigator Navigator

	mu        sync.Mutex
	state     gestureState
	dealID    uuid.UUID
	fromStage *uuid.UUID
}

// NewDragController creates a controller over the board. Nil sinks are
// replaced with no-ops.
func NewDragController(b *Board, notifier Notifier, navigator Navigator) *DragController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if navigator == nil {
		navigator = NopNavigator{}
	}
	return &DragController{board: b, notifier: notifier, navigator: navigator}
}

// Begin starts a gesture for the given deal. The deal's current stage is
// captured for the same-stage short circuit.
func (c *DragController) Begin(dealID uuid.UUID) error {
	deal, ok := c.board.Deals().Get(dealID)
	if !ok {
		return &ErrDealNotFound{DealID: dealID}
	}

	c.mu.Lock()
	c.state = gestureDragging
	c.dealID = dealID
	c.fromStage = cloneStageID(deal.StageID)
	c.mu.Unlock()
	return nil
}

// Cancel abandons the gesture without mutating anything.
func (c *DragController) Cancel() {
	c.mu.Lock()
	c.state = gestureIdle
	c.fromStage = nil
	c.mu.Unlock()
}

// Drop completes the gesture. An empty token means the card was released
// outside any column: the gesture ends with zero mutations. The returned
// deal is the confirmed remote row; finalize is true when the caller must
// enter the finalize-deal flow.
func (c *DragController) Drop(ctx context.Context, token string) (*types.Deal, bool, error) {
	c.mu.Lock()
	if c.state != gestureDragging {
		c.mu.Unlock()
		return nil, false, nil
	}
	dealID := c.dealID
	fromStage := c.fromStage
	c.state = gestureIdle
	c.fromStage = nil
	c.mu.Unlock()

	if token == "" {
		return nil, false, nil
	}

	target, err := ParseDropTarget(token)
	if err != nil {
		return nil, false, err
	}

	resolved, err := c.resolve(target)
	if err != nil {
		c.notifier.Notify(Notification{
			Key:         "drag-deal-error",
			Type:        NotifyError,
			Message:     "Cannot move deal",
			Description: err.Error(),
		})
		return nil, false, err
	}

	// Idempotence guard: a drop on the deal's current stage must not issue
	// a mutation.
	if stageIDsEqual(fromStage, resolved) {
		return nil, false, nil
	}

	updated, err := c.board.Deals().UpdateStage(ctx, dealID, resolved, true)
	if err != nil {
		c.notifier.Notify(Notification{
			Key:         "drag-deal-error",
			Type:        NotifyError,
			Message:     "Error moving deal",
			Description: err.Error(),
		})
		return nil, false, err
	}

	if target.Terminal() {
		c.navigator.NavigateTo(FinalizeResource, dealID, NavigateReplace)
		return updated, true, nil
	}
	return updated, false, nil
}

// HandleDragEnd runs a full gesture for a single drag-end event.
func (c *DragController) HandleDragEnd(ctx context.Context, dealID uuid.UUID, token string) (*types.Deal, bool, error) {
	if err := c.Begin(dealID); err != nil {
		return nil, false, err
	}
	return c.Drop(ctx, token)
}

// resolve maps a parsed target to a stage id (nil for unassigned). Won and
// lost require the corresponding reserved-title stage to exist.
func (c *DragController) resolve(target DropTarget) (*uuid.UUID, error) {
	switch target.Kind {
	case TargetWon:
		stage, ok := c.board.Stages().FindByTitle(types.StageTitleWon)
		if !ok {
			return nil, &ErrMissingTerminalStage{Title: types.StageTitleWon}
		}
		id := stage.ID
		return &id, nil
	case TargetLost:
		stage, ok := c.board.Stages().FindByTitle(types.StageTitleLost)
		if !ok {
			return nil, &ErrMissingTerminalStage{Title: types.StageTitleLost}
		}
		id := stage.ID
		return &id, nil
	case TargetUnassigned:
		return nil, nil
	default:
		id := target.StageID
		return &id, nil
	}
}

func stageIDsEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
