package mocks

import (
	"context"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByNIN(ctx context.Context, nin string) (*model.User, error) {
	args := m.Called(ctx, nin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f model.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateVacating(ctx context.Context, u *model.User, left model.SubunitRef, slot repository.LeaderSlot) error {
	args := m.Called(ctx, u, left, slot)
	return args.Error(0)
}

func (m *MockUserRepository) UpsertByNIN(ctx context.Context, u *model.User) (bool, error) {
	args := m.Called(ctx, u)
	if f, ok := args.Get(0).(func(context.Context, *model.User) bool); ok {
		return f(ctx, u), args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, id string, hash []byte, force bool, at time.Time) error {
	args := m.Called(ctx, id, hash, force, at)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteByEmailSuffix(ctx context.Context, suffix string) (int64, error) {
	args := m.Called(ctx, suffix)
	return args.Get(0).(int64), args.Error(1)
}
