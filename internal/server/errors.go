// Package server provides the HTTP REST API for the sales pipeline board.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/board"
	"github.com/jmendez/crmboard/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	// Board-layer errors are wrapped, so match with errors.As.
	var (
		invalidTitle  *board.ErrInvalidStageTitle
		invalidTarget *board.ErrInvalidDropTarget
		stageNotEmpty *board.ErrStageNotEmpty
		missingStage  *board.ErrMissingTerminalStage
		dealNotFound  *board.ErrDealNotFound
		mutation      *board.ErrMutationFailed
		fetch         *board.ErrFetchFailed
	)
	switch {
	case errors.As(err, &invalidTitle), errors.As(err, &invalidTarget):
		return http.StatusBadRequest
	case errors.As(err, &stageNotEmpty):
		return http.StatusConflict
	case errors.As(err, &missingStage):
		return http.StatusUnprocessableEntity
	case errors.As(err, &dealNotFound):
		return http.StatusNotFound
	case errors.As(err, &mutation), errors.As(err, &fetch):
		return http.StatusBadGateway
	}

	// Storage-layer misses: an update or delete addressed a row that
	// does not exist.
	var rowMissing *db.NotFoundError
	if errors.As(err, &rowMissing) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
