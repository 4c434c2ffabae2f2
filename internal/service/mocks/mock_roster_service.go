package mocks

import (
	"context"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRosterService struct {
	mock.Mock
}

func (m *MockRosterService) ListSubunits(ctx context.Context, actor *model.User, sectionID string) ([]model.Subunit, error) {
	args := m.Called(ctx, actor, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subunit), args.Error(1)
}

func (m *MockRosterService) CreateSubunit(ctx context.Context, actor *model.User, name string) (*model.Subunit, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subunit), args.Error(1)
}

func (m *MockRosterService) SetSubunitActive(ctx context.Context, actor *model.User, subunitID string, active bool) error {
	args := m.Called(ctx, actor, subunitID, active)
	return args.Error(0)
}

func (m *MockRosterService) SetSubunitLeader(ctx context.Context, actor *model.User, subunitID string, slot repository.LeaderSlot, memberID string) error {
	args := m.Called(ctx, actor, subunitID, slot, memberID)
	return args.Error(0)
}

func (m *MockRosterService) ListMembers(ctx context.Context, actor *model.User) ([]model.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockRosterService) UpdateMember(ctx context.Context, actor *model.User, memberID string, upd service.MemberUpdate) (*model.User, error) {
	args := m.Called(ctx, actor, memberID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRosterService) ListLeaders(ctx context.Context, actor *model.User) ([]model.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockRosterService) UpdateLeader(ctx context.Context, actor *model.User, leaderID string, upd service.LeaderUpdate) (*model.User, error) {
	args := m.Called(ctx, actor, leaderID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
