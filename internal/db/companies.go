package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmendez/crmboard/internal/types"
)

// ListCompanies retrieves companies with their contact counts, newest first
func (db *DB) ListCompanies(ctx context.Context) ([]types.Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.name, COALESCE(c.avatar_url, ''), c.sales_owner_id,
		        c.created_at, c.updated_at, COUNT(ct.id)
		 FROM companies c
		 LEFT JOIN contacts ct ON ct.company_id = c.id
		 GROUP BY c.id
		 ORDER BY c.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []types.Company
	for rows.Next() {
		var c types.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.AvatarURL, &c.SalesOwnerID,
			&c.CreatedAt, &c.UpdatedAt, &c.ContactCount); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// GetCompany retrieves a company by its UUID
func (db *DB) GetCompany(ctx context.Context, id uuid.UUID) (*types.Company, error) {
	var c types.Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(avatar_url, ''), sales_owner_id, created_at, updated_at
		 FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.AvatarURL, &c.SalesOwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// CreateCompany inserts a new company
func (db *DB) CreateCompany(ctx context.Context, req *types.CreateCompanyRequest) (*types.Company, error) {
	var c types.Company
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, avatar_url, sales_owner_id)
		 VALUES ($1, NULLIF($2, ''), $3)
		 RETURNING id, name, COALESCE(avatar_url, ''), sales_owner_id, created_at, updated_at`,
		req.Name, req.AvatarURL, req.SalesOwnerID,
	).Scan(&c.ID, &c.Name, &c.AvatarURL, &c.SalesOwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &c, nil
}

// UpdateCompany applies a partial update to a company
func (db *DB) UpdateCompany(ctx context.Context, id uuid.UUID, req *types.UpdateCompanyRequest) (*types.Company, error) {
	query := `UPDATE companies SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", argNum)
		args = append(args, *req.Name)
		argNum++
	}
	if req.AvatarURL != nil {
		query += fmt.Sprintf(", avatar_url = NULLIF($%d, '')", argNum)
		args = append(args, *req.AvatarURL)
		argNum++
	}
	if req.SalesOwnerID != nil {
		query += fmt.Sprintf(", sales_owner_id = $%d", argNum)
		args = append(args, *req.SalesOwnerID)
		argNum++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, notFound("company", id)
	}
	return db.GetCompany(ctx, id)
}

// DeleteCompany removes a company and its contacts and deals (via cascade)
func (db *DB) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("company", id)
	}
	return nil
}
