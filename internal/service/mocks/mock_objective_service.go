package mocks

import (
	"context"

	"azimute/internal/model"
	"azimute/internal/service"
	"azimute/internal/workflow"
	"github.com/stretchr/testify/mock"
)

type MockObjectiveService struct {
	mock.Mock
}

func (m *MockObjectiveService) Board(ctx context.Context, actor *model.User) (*service.Board, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Board), args.Error(1)
}

func (m *MockObjectiveService) Submit(ctx context.Context, actor *model.User, objectiveIDs []string) (*service.SubmitResult, error) {
	args := m.Called(ctx, actor, objectiveIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockObjectiveService) Cancel(ctx context.Context, actor *model.User, objectiveID string) error {
	args := m.Called(ctx, actor, objectiveID)
	return args.Error(0)
}

func (m *MockObjectiveService) GuidePending(ctx context.Context, actor *model.User) ([]model.ObjectiveWithOwner, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ObjectiveWithOwner), args.Error(1)
}

func (m *MockObjectiveService) LeaderPending(ctx context.Context, actor *model.User) ([]model.ObjectiveWithOwner, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ObjectiveWithOwner), args.Error(1)
}

func (m *MockObjectiveService) Decide(ctx context.Context, actor *model.User, ownerID, objectiveID string, action workflow.Action) (*model.MemberObjective, error) {
	args := m.Called(ctx, actor, ownerID, objectiveID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MemberObjective), args.Error(1)
}

func (m *MockObjectiveService) SetCompletedHolders(ctx context.Context, actor *model.User, objectiveID string, userIDs []string) (*service.AssignResult, error) {
	args := m.Called(ctx, actor, objectiveID, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssignResult), args.Error(1)
}

func (m *MockObjectiveService) SectionStats(ctx context.Context, actor *model.User, sectionID string) (*service.SectionStats, error) {
	args := m.Called(ctx, actor, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SectionStats), args.Error(1)
}

func (m *MockObjectiveService) GroupStats(ctx context.Context, actor *model.User) (*service.GroupStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GroupStats), args.Error(1)
}
