package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Deal statuses. A deal becomes closed once it is finalized after landing
// in a terminal stage.
const (
	DealStatusOpen   = "open"
	DealStatusClosed = "closed"
)

// Deal represents a pipeline opportunity. StageID is nil for unassigned
// deals; a StageID pointing at the WON or LOST stage marks the deal
// terminal.
type Deal struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Value         float64    `json:"value"`
	CreatedAt     time.Time  `json:"created_at"`
	StageID       *uuid.UUID `json:"stage_id"`
	CompanyID     uuid.UUID  `json:"company_id"`
	DealOwnerID   uuid.UUID  `json:"deal_owner_id"`
	DealContactID *uuid.UUID `json:"deal_contact_id,omitempty"`
	Status        string     `json:"status"`

	// Closing metadata, captured by the finalize flow after a WON/LOST drop.
	Notes          string `json:"notes,omitempty"`
	CloseDateYear  *int   `json:"close_date_year,omitempty"`
	CloseDateMonth *int   `json:"close_date_month,omitempty"`
	CloseDateDay   *int   `json:"close_date_day,omitempty"`

	// Expanded references, populated on reads that join related rows.
	Company   *CompanyRef `json:"company,omitempty"`
	DealOwner *UserRef    `json:"deal_owner,omitempty"`
}

// CompanyRef is the embedded company summary carried on a deal.
type CompanyRef struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// UserRef is the embedded sales-owner summary carried on a deal.
type UserRef struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// CreateDealRequest represents the request to create a deal, optionally
// placed directly into a stage (the board's "add card" action).
type CreateDealRequest struct {
	Title         string     `json:"title" validate:"required,min=1"`
	Value         float64    `json:"value" validate:"gte=0"`
	StageID       *uuid.UUID `json:"stage_id,omitempty"`
	CompanyID     uuid.UUID  `json:"company_id" validate:"required"`
	DealOwnerID   uuid.UUID  `json:"deal_owner_id" validate:"required"`
	DealContactID *uuid.UUID `json:"deal_contact_id,omitempty"`

	// Inline contact creation, used when the chosen company has no contacts.
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// UpdateDealRequest represents a partial update of a deal's editable fields.
type UpdateDealRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Value         *float64   `json:"value,omitempty" validate:"omitempty,gte=0"`
	StageID       *uuid.UUID `json:"stage_id,omitempty"`
	ClearStage    bool       `json:"clear_stage,omitempty"`
	DealOwnerID   *uuid.UUID `json:"deal_owner_id,omitempty"`
	DealContactID *uuid.UUID `json:"deal_contact_id,omitempty"`
}

// FinalizeDealRequest carries the closing metadata collected once a deal
// lands in a terminal stage.
type FinalizeDealRequest struct {
	Notes          string `json:"notes,omitempty"`
	CloseDateYear  int    `json:"close_date_year" validate:"required,gte=2000,lte=2100"`
	CloseDateMonth int    `json:"close_date_month" validate:"required,gte=1,lte=12"`
	CloseDateDay   int    `json:"close_date_day" validate:"required,gte=1,lte=31"`
}

// DragRequest represents a drag-end gesture: a deal dropped onto a column.
// Target is the drop-target token ("won", "lost", "unassigned", or a stage
// id); empty means the card was dropped outside any column.
type DragRequest struct {
	DealID uuid.UUID `json:"deal_id" validate:"required"`
	Target string    `json:"target"`
}

// Validate validates the CreateDealRequest using the validator.
func (r *CreateDealRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateDealRequest using the validator.
func (r *UpdateDealRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the FinalizeDealRequest using the validator.
func (r *FinalizeDealRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the DragRequest using the validator.
func (r *DragRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
