package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Contact statuses, mirrored from the contact lifecycle column.
const (
	ContactStatusNew         = "NEW"
	ContactStatusContacted   = "CONTACTED"
	ContactStatusInterested  = "INTERESTED"
	ContactStatusQualified   = "QUALIFIED"
	ContactStatusNegotiation = "NEGOTIATION"
	ContactStatusLost        = "LOST"
	ContactStatusWon         = "WON"
	ContactStatusChurned     = "CHURNED"
)

// Contact represents a person at a company.
type Contact struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	Status       string    `json:"status"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CompanyID    uuid.UUID `json:"company_id"`
	SalesOwnerID uuid.UUID `json:"sales_owner_id"`
	CreatedAt    time.Time `json:"created_at"`

	Company *CompanyRef `json:"company,omitempty"`
}

// CreateContactRequest represents the request to create a contact.
type CreateContactRequest struct {
	Name         string    `json:"name" validate:"required,min=1"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	Status       string    `json:"status,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty" validate:"omitempty,url"`
	CompanyID    uuid.UUID `json:"company_id" validate:"required"`
	SalesOwnerID uuid.UUID `json:"sales_owner_id" validate:"required"`
}

// UpdateContactRequest represents a partial update of a contact.
type UpdateContactRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
	JobTitle *string `json:"job_title,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Validate validates the CreateContactRequest using the validator.
func (r *CreateContactRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateContactRequest using the validator.
func (r *UpdateContactRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
