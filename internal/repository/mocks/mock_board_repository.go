package mocks

import (
	"context"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, q repository.NotificationQuery) (*repository.PageResult[model.Notification], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) Resolve(ctx context.Context, id, by string, at time.Time) error {
	args := m.Called(ctx, id, by, at)
	return args.Error(0)
}

func (m *MockNotificationRepository) HasPending(ctx context.Context, memberID, action string) (bool, error) {
	args := m.Called(ctx, memberID, action)
	return args.Bool(0), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, p *model.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Feed(ctx context.Context, groupID, userID string, tags []string, now time.Time) ([]model.Post, error) {
	args := m.Called(ctx, groupID, userID, tags, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) Archive(ctx context.Context, postID, userID string, at time.Time) error {
	args := m.Called(ctx, postID, userID, at)
	return args.Error(0)
}
