package postgres

import (
	"context"
	"database/sql"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// CatalogPostgres is a PostgreSQL implementation of repository.CatalogRepository.
type CatalogPostgres struct {
	db *sql.DB
}

// NewCatalogPostgres creates a new CatalogPostgres repository.
func NewCatalogPostgres(db *sql.DB) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

var _ repository.CatalogRepository = (*CatalogPostgres)(nil)

// ListBySection returns a section's catalogue ordered by area, trail and code.
func (r *CatalogPostgres) ListBySection(ctx context.Context, section string) ([]model.CatalogObjective, error) {
	const q = `
		SELECT id, section, area, trail, code, description, created_at, updated_at
		FROM catalog_objectives
		WHERE section = $1
		ORDER BY area, trail, code, id
	`
	rows, err := r.db.QueryContext(ctx, q, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CatalogObjective, 0)
	for rows.Next() {
		var o model.CatalogObjective
		if err := rows.Scan(
			&o.ID,
			&o.Section,
			&o.Area,
			&o.Trail,
			&o.Code,
			&o.Description,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertBatch writes items in one transaction, keeping created_at of existing rows.
func (r *CatalogPostgres) UpsertBatch(ctx context.Context, items []model.CatalogObjective) error {
	if len(items) == 0 {
		return nil
	}
	const q = `
		INSERT INTO catalog_objectives (id, section, area, trail, code, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			section = EXCLUDED.section, area = EXCLUDED.area, trail = EXCLUDED.trail,
			code = EXCLUDED.code, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
	`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, o := range items {
			if _, err := stmt.ExecContext(ctx,
				o.ID,
				o.Section,
				o.Area,
				o.Trail,
				o.Code,
				o.Description,
				o.CreatedAt,
				o.UpdatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
