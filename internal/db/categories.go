package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"linkhub/internal/models"
)

// ListCategories returns every category in seed order.
func (d *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, name, description FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, storageError("list categories", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Category])
	if err != nil {
		return nil, storageError("list categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// SeedCategories inserts the given categories, skipping names that already exist.
// Safe to run on every startup.
func (d *DB) SeedCategories(ctx context.Context, categories []models.Category) error {
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, c.Name, c.Description)
	}

	results := d.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, c := range categories {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}

	return nil
}
