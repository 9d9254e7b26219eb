package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Company represents a customer account that deals and contacts hang off.
type Company struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	SalesOwnerID uuid.UUID `json:"sales_owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ContactCount int `json:"contact_count,omitempty"`
}

// CreateCompanyRequest represents the request to create a company.
type CreateCompanyRequest struct {
	Name         string    `json:"name" validate:"required,min=1"`
	AvatarURL    string    `json:"avatar_url,omitempty" validate:"omitempty,url"`
	SalesOwnerID uuid.UUID `json:"sales_owner_id" validate:"required"`
}

// UpdateCompanyRequest represents a partial update of a company.
type UpdateCompanyRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	AvatarURL    *string    `json:"avatar_url,omitempty" validate:"omitempty,url"`
	SalesOwnerID *uuid.UUID `json:"sales_owner_id,omitempty"`
}

// Validate validates the CreateCompanyRequest using the validator.
func (r *CreateCompanyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateCompanyRequest using the validator.
func (r *UpdateCompanyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
