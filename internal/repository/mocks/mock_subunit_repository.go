package mocks

import (
	"context"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockSubunitRepository struct {
	mock.Mock
}

func (m *MockSubunitRepository) EnsureSection(ctx context.Context, groupID, sectionID string) error {
	args := m.Called(ctx, groupID, sectionID)
	return args.Error(0)
}

func (m *MockSubunitRepository) List(ctx context.Context, groupID, sectionID string) ([]model.Subunit, error) {
	args := m.Called(ctx, groupID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subunit), args.Error(1)
}

func (m *MockSubunitRepository) Find(ctx context.Context, ref model.SubunitRef) (*model.Subunit, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subunit), args.Error(1)
}

func (m *MockSubunitRepository) Create(ctx context.Context, s *model.Subunit) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubunitRepository) Upsert(ctx context.Context, s *model.Subunit) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubunitRepository) SetActive(ctx context.Context, ref model.SubunitRef, active bool, at time.Time) error {
	args := m.Called(ctx, ref, active, at)
	return args.Error(0)
}

func (m *MockSubunitRepository) SetLeader(ctx context.Context, ref model.SubunitRef, slot repository.LeaderSlot, userID string, at time.Time) error {
	args := m.Called(ctx, ref, slot, userID, at)
	return args.Error(0)
}
