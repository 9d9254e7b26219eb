package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmendez/crmboard/internal/types"
)

const dealSelect = `
	SELECT d.id, d.title, d.value, d.created_at, d.stage_id,
	       d.company_id, d.deal_owner_id, d.deal_contact_id,
	       d.status, d.notes, d.close_date_year, d.close_date_month, d.close_date_day,
	       c.id, c.name, COALESCE(c.avatar_url, ''),
	       u.id, u.name, COALESCE(u.avatar_url, '')
	FROM deals d
	JOIN companies c ON c.id = d.company_id
	JOIN users u ON u.id = d.deal_owner_id`

func scanDeal(row pgx.Row) (*types.Deal, error) {
	var d types.Deal
	var company types.CompanyRef
	var owner types.UserRef
	err := row.Scan(&d.ID, &d.Title, &d.Value, &d.CreatedAt, &d.StageID,
		&d.CompanyID, &d.DealOwnerID, &d.DealContactID,
		&d.Status, &d.Notes, &d.CloseDateYear, &d.CloseDateMonth, &d.CloseDateDay,
		&company.ID, &company.Name, &company.AvatarURL,
		&owner.ID, &owner.Name, &owner.AvatarURL)
	if err != nil {
		return nil, err
	}
	d.Company = &company
	d.DealOwner = &owner
	return &d, nil
}

// ListDealsSince retrieves deals created at or after the cutoff, with their
// company and owner joined in, oldest first.
func (db *DB) ListDealsSince(ctx context.Context, since time.Time) ([]types.Deal, error) {
	rows, err := db.pool.Query(ctx,
		dealSelect+` WHERE d.created_at >= $1 ORDER BY d.created_at ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []types.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	return deals, nil
}

// GetDeal retrieves a deal by its UUID
func (db *DB) GetDeal(ctx context.Context, id uuid.UUID) (*types.Deal, error) {
	deal, err := scanDeal(db.pool.QueryRow(ctx, dealSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	return deal, nil
}

// CreateDeal inserts a new deal, optionally placed directly into a stage
func (db *DB) CreateDeal(ctx context.Context, req *types.CreateDealRequest) (*types.Deal, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO deals (title, value, stage_id, company_id, deal_owner_id, deal_contact_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		req.Title, req.Value, req.StageID, req.CompanyID, req.DealOwnerID, req.DealContactID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}
	return db.GetDeal(ctx, id)
}

// UpdateDeal applies a partial update to a deal's editable fields
func (db *DB) UpdateDeal(ctx context.Context, id uuid.UUID, req *types.UpdateDealRequest) (*types.Deal, error) {
	query := `UPDATE deals SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	if req.Title != nil {
		query += fmt.Sprintf(", title = $%d", argNum)
		args = append(args, *req.Title)
		argNum++
	}
	if req.Value != nil {
		query += fmt.Sprintf(", value = $%d", argNum)
		args = append(args, *req.Value)
		argNum++
	}
	if req.ClearStage {
		query += ", stage_id = NULL"
	} else if req.StageID != nil {
		query += fmt.Sprintf(", stage_id = $%d", argNum)
		args = append(args, *req.StageID)
		argNum++
	}
	if req.DealOwnerID != nil {
		query += fmt.Sprintf(", deal_owner_id = $%d", argNum)
		args = append(args, *req.DealOwnerID)
		argNum++
	}
	if req.DealContactID != nil {
		query += fmt.Sprintf(", deal_contact_id = $%d", argNum)
		args = append(args, *req.DealContactID)
		argNum++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, notFound("deal", id)
	}
	return db.GetDeal(ctx, id)
}

// UpdateDealStage reassigns a deal to a stage. A nil stage moves the deal
// to the unassigned pool.
func (db *DB) UpdateDealStage(ctx context.Context, dealID uuid.UUID, stageID *uuid.UUID) (*types.Deal, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE deals SET stage_id = $1, updated_at = NOW() WHERE id = $2`,
		stageID, dealID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update deal stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, notFound("deal", dealID)
	}
	return db.GetDeal(ctx, dealID)
}

// UpdateDealStageMany reassigns a batch of deals to a stage in one
// transaction, so a partial failure leaves no deal moved.
func (db *DB) UpdateDealStageMany(ctx context.Context, dealIDs []uuid.UUID, stageID *uuid.UUID) error {
	if len(dealIDs) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE deals SET stage_id = $1, updated_at = NOW() WHERE id = ANY($2)`,
		stageID, dealIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to update deal stages: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stage updates: %w", err)
	}
	return nil
}

// FinalizeDeal records the closing metadata collected after a deal lands
// in a terminal stage, and marks the deal closed.
func (db *DB) FinalizeDeal(ctx context.Context, dealID uuid.UUID, req *types.FinalizeDealRequest) (*types.Deal, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE deals
		 SET notes = $1, close_date_year = $2, close_date_month = $3, close_date_day = $4,
		     status = $5, updated_at = NOW()
		 WHERE id = $6`,
		req.Notes, req.CloseDateYear, req.CloseDateMonth, req.CloseDateDay,
		types.DealStatusClosed, dealID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize deal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, notFound("deal", dealID)
	}
	return db.GetDeal(ctx, dealID)
}

// DeleteDeal removes a deal
func (db *DB) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("deal", id)
	}
	return nil
}

// MonthlyDealTotal is one month's aggregated deal value for the chart
type MonthlyDealTotal struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// DealsChartByStage aggregates closed deal values per close month for the
// stage with the given title (the WON and LOST dashboard series).
func (db *DB) DealsChartByStage(ctx context.Context, stageTitle string) ([]MonthlyDealTotal, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT d.close_date_year, d.close_date_month, COALESCE(SUM(d.value), 0)
		 FROM deals d
		 JOIN deal_stages s ON s.id = d.stage_id
		 WHERE s.title = $1 AND d.close_date_year IS NOT NULL AND d.close_date_month IS NOT NULL
		 GROUP BY d.close_date_year, d.close_date_month
		 ORDER BY d.close_date_year ASC, d.close_date_month ASC`,
		stageTitle,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate deals chart: %w", err)
	}
	defer rows.Close()

	var totals []MonthlyDealTotal
	for rows.Next() {
		var t MonthlyDealTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan deal total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, nil
}
