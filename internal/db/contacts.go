package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmendez/crmboard/internal/types"
)

const contactSelect = `
	SELECT ct.id, ct.name, ct.email, COALESCE(ct.phone, ''), COALESCE(ct.job_title, ''),
	       ct.status, COALESCE(ct.avatar_url, ''), ct.company_id, ct.sales_owner_id, ct.created_at,
	       c.id, c.name, COALESCE(c.avatar_url, '')
	FROM contacts ct
	JOIN companies c ON c.id = ct.company_id`

func scanContact(row pgx.Row) (*types.Contact, error) {
	var ct types.Contact
	var company types.CompanyRef
	err := row.Scan(&ct.ID, &ct.Name, &ct.Email, &ct.Phone, &ct.JobTitle,
		&ct.Status, &ct.AvatarURL, &ct.CompanyID, &ct.SalesOwnerID, &ct.CreatedAt,
		&company.ID, &company.Name, &company.AvatarURL)
	if err != nil {
		return nil, err
	}
	ct.Company = &company
	return &ct, nil
}

// ListContacts retrieves contacts, optionally filtered to one company
func (db *DB) ListContacts(ctx context.Context, companyID *uuid.UUID) ([]types.Contact, error) {
	query := contactSelect
	args := []any{}
	if companyID != nil {
		query += ` WHERE ct.company_id = $1`
		args = append(args, *companyID)
	}
	query += ` ORDER BY ct.created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []types.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	return contacts, nil
}

// GetContact retrieves a contact by its UUID
func (db *DB) GetContact(ctx context.Context, id uuid.UUID) (*types.Contact, error) {
	contact, err := scanContact(db.pool.QueryRow(ctx, contactSelect+` WHERE ct.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// CreateContact inserts a new contact
func (db *DB) CreateContact(ctx context.Context, req *types.CreateContactRequest) (*types.Contact, error) {
	status := req.Status
	if status == "" {
		status = types.ContactStatusNew
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, job_title, status, avatar_url, company_id, sales_owner_id)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8)
		 RETURNING id`,
		req.Name, req.Email, req.Phone, req.JobTitle, status, req.AvatarURL,
		req.CompanyID, req.SalesOwnerID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return db.GetContact(ctx, id)
}

// UpdateContact applies a partial update to a contact
func (db *DB) UpdateContact(ctx context.Context, id uuid.UUID, req *types.UpdateContactRequest) (*types.Contact, error) {
	query := `UPDATE contacts SET id = id`
	args := []any{}
	argNum := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", argNum)
		args = append(args, *req.Name)
		argNum++
	}
	if req.Email != nil {
		query += fmt.Sprintf(", email = $%d", argNum)
		args = append(args, *req.Email)
		argNum++
	}
	if req.Phone != nil {
		query += fmt.Sprintf(", phone = NULLIF($%d, '')", argNum)
		args = append(args, *req.Phone)
		argNum++
	}
	if req.JobTitle != nil {
		query += fmt.Sprintf(", job_title = NULLIF($%d, '')", argNum)
		args = append(args, *req.JobTitle)
		argNum++
	}
	if req.Status != nil {
		query += fmt.Sprintf(", status = $%d", argNum)
		args = append(args, *req.Status)
		argNum++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, notFound("contact", id)
	}
	return db.GetContact(ctx, id)
}

// DeleteContact removes a contact
func (db *DB) DeleteContact(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("contact", id)
	}
	return nil
}
