package mocks

import (
	"context"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, actor *model.User, filter service.NotificationFilter, page repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	args := m.Called(ctx, actor, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Notification]), args.Error(1)
}

func (m *MockNotificationService) Resolve(ctx context.Context, actor *model.User, id string) (*model.Notification, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

type MockBulletinService struct {
	mock.Mock
}

func (m *MockBulletinService) Destinations(actor *model.User, role string) ([]string, error) {
	args := m.Called(actor, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBulletinService) Publish(ctx context.Context, actor *model.User, in service.PostInput) (*model.Post, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockBulletinService) Feed(ctx context.Context, actor *model.User) ([]model.Post, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockBulletinService) Archive(ctx context.Context, actor *model.User, postID string) error {
	args := m.Called(ctx, actor, postID)
	return args.Error(0)
}
