// Package board implements the sales pipeline board state model: cached
// stage and deal stores, the pure pipeline projector, drag-and-drop stage
// reassignment with optimistic updates, and the guarded bulk stage
// operations.
package board

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidStageTitle indicates a stage mutation with an empty or
// whitespace-only title. Rejected before any repository call.
type ErrInvalidStageTitle struct {
	Title string
}

func (e *ErrInvalidStageTitle) Error() string {
	return "stage title must not be empty"
}

// ErrStageNotEmpty indicates an attempt to delete a stage that still holds
// deals.
type ErrStageNotEmpty struct {
	StageID uuid.UUID
	Count   int
}

func (e *ErrStageNotEmpty) Error() string {
	return fmt.Sprintf("stage %s is not empty: %d deal(s) assigned", e.StageID, e.Count)
}

// ErrMissingTerminalStage indicates a drop onto the won/lost area while the
// pipeline has no stage with the corresponding reserved title. The drop is
// aborted with zero mutations.
type ErrMissingTerminalStage struct {
	Title string
}

func (e *ErrMissingTerminalStage) Error() string {
	return fmt.Sprintf("pipeline has no %q stage configured", e.Title)
}

// ErrInvalidDropTarget indicates a drop-target token that is neither a
// pseudo-identifier nor a parseable stage id.
type ErrInvalidDropTarget struct {
	Token string
}

func (e *ErrInvalidDropTarget) Error() string {
	return fmt.Sprintf("invalid drop target %q", e.Token)
}

// ErrDealNotFound indicates a gesture referencing a deal outside the
// current board window.
type ErrDealNotFound struct {
	DealID uuid.UUID
}

func (e *ErrDealNotFound) Error() string {
	return fmt.Sprintf("deal not found on board: %s", e.DealID)
}

// ErrMutationFailed indicates a remote write failed. Any optimistic state
// has been rolled back by the time this error is returned.
type ErrMutationFailed struct {
	Op  string
	Err error
}

func (e *ErrMutationFailed) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ErrMutationFailed) Unwrap() error {
	return e.Err
}

// ErrFetchFailed indicates a read from the remote store failed. Callers
// render an error state rather than partial data.
type ErrFetchFailed struct {
	Resource string
	Err      error
}

func (e *ErrFetchFailed) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
}

func (e *ErrFetchFailed) Unwrap() error {
	return e.Err
}
