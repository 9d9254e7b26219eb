package db

import (
	"context"
	"fmt"
)

// EntityCounts holds the headline numbers for the dashboard.
type EntityCounts struct {
	Companies int `json:"companies"`
	Contacts  int `json:"contacts"`
	Deals     int `json:"deals"`
}

// CountEntities returns the total number of companies, contacts and deals
func (db *DB) CountEntities(ctx context.Context) (*EntityCounts, error) {
	var counts EntityCounts
	err := db.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM companies),
		        (SELECT COUNT(*) FROM contacts),
		        (SELECT COUNT(*) FROM deals)`,
	).Scan(&counts.Companies, &counts.Contacts, &counts.Deals)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	return &counts, nil
}
