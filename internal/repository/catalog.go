package repository

import (
	"context"

	"azimute/internal/model"
)

// CatalogRepository defines data access for the objective catalogue.
type CatalogRepository interface {
	// ListBySection returns the catalogue of a section ordered by area and code.
	ListBySection(ctx context.Context, section string) ([]model.CatalogObjective, error)

	// UpsertBatch writes items in one transaction. created_at is preserved on update.
	UpsertBatch(ctx context.Context, items []model.CatalogObjective) error
}
