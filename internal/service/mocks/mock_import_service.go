package mocks

import (
	"context"
	"io"

	"azimute/internal/model"
	"azimute/internal/service"
	"azimute/internal/spreadsheet"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, section string) ([]model.CatalogObjective, error) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogObjective), args.Error(1)
}

func (m *MockCatalogService) Import(ctx context.Context, sheet *spreadsheet.Sheet) (*service.CatalogImportSummary, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CatalogImportSummary), args.Error(1)
}

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportUsers(ctx context.Context, filename string, r io.Reader, opts service.ImportOptions) (*service.UserImportSummary, error) {
	args := m.Called(ctx, filename, r, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserImportSummary), args.Error(1)
}

func (m *MockImportService) ImportCatalog(ctx context.Context, filename string, r io.Reader) (*service.CatalogImportSummary, error) {
	args := m.Called(ctx, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CatalogImportSummary), args.Error(1)
}

func (m *MockImportService) ArchiveURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockImportService) OpenArchive(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
