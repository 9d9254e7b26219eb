package db

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports that a row addressed by id does not exist.
// Update and delete statements surface it when they affect zero rows;
// the HTTP layer maps it to a 404.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func notFound(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id}
}
