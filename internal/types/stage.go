// Package types provides type definitions for structured data used throughout the CRM backend.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Reserved stage titles. A stage titled "WON" or "LOST" is terminal:
// deals dropped into it are closed and require finalize metadata.
const (
	StageTitleWon  = "WON"
	StageTitleLost = "LOST"
)

// DealStage represents a pipeline column. Regular stages are ordered by
// CreatedAt ascending; WON/LOST are rendered apart from the regular columns.
type DealStage struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Terminal reports whether the stage closes deals dropped into it.
func (s *DealStage) Terminal() bool {
	return s.Title == StageTitleWon || s.Title == StageTitleLost
}

// StageSummary is a stage with its aggregated deal value, used by the
// stage listing endpoint and the dashboard.
type StageSummary struct {
	DealStage
	DealCount int     `json:"deal_count"`
	DealSum   float64 `json:"deal_sum"`
}

// CreateStageRequest represents the request to create a pipeline stage.
type CreateStageRequest struct {
	Title string `json:"title" validate:"required,min=1"`
}

// UpdateStageRequest represents the request to rename a pipeline stage.
type UpdateStageRequest struct {
	Title string `json:"title" validate:"required,min=1"`
}

// Validate validates the CreateStageRequest using the validator.
func (r *CreateStageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateStageRequest using the validator.
func (r *UpdateStageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
