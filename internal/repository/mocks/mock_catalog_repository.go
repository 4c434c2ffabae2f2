package mocks

import (
	"context"

	"azimute/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListBySection(ctx context.Context, section string) ([]model.CatalogObjective, error) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogObjective), args.Error(1)
}

func (m *MockCatalogRepository) UpsertBatch(ctx context.Context, items []model.CatalogObjective) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}
