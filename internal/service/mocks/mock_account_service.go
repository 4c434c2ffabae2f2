package mocks

import (
	"context"

	"azimute/internal/model"
	"azimute/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Login(ctx context.Context, nin, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, nin, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAccountService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, actor *model.User, current, next, confirm string) error {
	args := m.Called(ctx, actor, current, next, confirm)
	return args.Error(0)
}

func (m *MockAccountService) ForceChangePassword(ctx context.Context, actor *model.User, next, confirm string) error {
	args := m.Called(ctx, actor, next, confirm)
	return args.Error(0)
}

func (m *MockAccountService) ResetPassword(ctx context.Context, actor *model.User, targetID string) error {
	args := m.Called(ctx, actor, targetID)
	return args.Error(0)
}

func (m *MockAccountService) ResetPasswordByNIN(ctx context.Context, nin string) (*model.User, error) {
	args := m.Called(ctx, nin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
