package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmendez/crmboard/internal/types"
)

// ListStages retrieves all stages ordered by creation time, which is the
// board's column order.
func (db *DB) ListStages(ctx context.Context) ([]types.DealStage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, created_at
		 FROM deal_stages ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	var stages []types.DealStage
	for rows.Next() {
		var s types.DealStage
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stages = append(stages, s)
	}
	return stages, nil
}

// GetStage retrieves a stage by its UUID
func (db *DB) GetStage(ctx context.Context, id uuid.UUID) (*types.DealStage, error) {
	var s types.DealStage
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, created_at FROM deal_stages WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Title, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return &s, nil
}

// CreateStage inserts a new stage
func (db *DB) CreateStage(ctx context.Context, title string) (*types.DealStage, error) {
	var s types.DealStage
	err := db.pool.QueryRow(ctx,
		`INSERT INTO deal_stages (title)
		 VALUES ($1)
		 RETURNING id, title, created_at`,
		title,
	).Scan(&s.ID, &s.Title, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}
	return &s, nil
}

// RenameStage updates a stage's title
func (db *DB) RenameStage(ctx context.Context, id uuid.UUID, title string) (*types.DealStage, error) {
	var s types.DealStage
	err := db.pool.QueryRow(ctx,
		`UPDATE deal_stages SET title = $1 WHERE id = $2
		 RETURNING id, title, created_at`,
		title, id,
	).Scan(&s.ID, &s.Title, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("stage", id)
		}
		return nil, fmt.Errorf("failed to rename stage: %w", err)
	}
	return &s, nil
}

// DeleteStage removes a stage. Deals referencing it are not touched here;
// the caller enforces the empty-column guard first.
func (db *DB) DeleteStage(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM deal_stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("stage", id)
	}
	return nil
}

// ListStageSummaries retrieves every stage with its deal count and value
// sum, for dashboards that don't need the full card lists.
func (db *DB) ListStageSummaries(ctx context.Context) ([]types.StageSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.title, s.created_at,
		        COUNT(d.id), COALESCE(SUM(d.value), 0)
		 FROM deal_stages s
		 LEFT JOIN deals d ON d.stage_id = s.id
		 GROUP BY s.id, s.title, s.created_at
		 ORDER BY s.created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage summaries: %w", err)
	}
	defer rows.Close()

	var summaries []types.StageSummary
	for rows.Next() {
		var s types.StageSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.DealCount, &s.DealSum); err != nil {
			return nil, fmt.Errorf("failed to scan stage summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
