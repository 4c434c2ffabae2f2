package mocks

import (
	"context"
	"time"

	"azimute/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockObjectiveRepository struct {
	mock.Mock
}

func (m *MockObjectiveRepository) Find(ctx context.Context, userID, objectiveID string) (*model.MemberObjective, error) {
	args := m.Called(ctx, userID, objectiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MemberObjective), args.Error(1)
}

func (m *MockObjectiveRepository) ListByUser(ctx context.Context, userID string) ([]model.MemberObjective, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MemberObjective), args.Error(1)
}

func (m *MockObjectiveRepository) ListWithOwner(ctx context.Context, f model.ObjectiveFilter) ([]model.ObjectiveWithOwner, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ObjectiveWithOwner), args.Error(1)
}

func (m *MockObjectiveRepository) Save(ctx context.Context, rec *model.MemberObjective) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockObjectiveRepository) Delete(ctx context.Context, userID, objectiveID string) error {
	args := m.Called(ctx, userID, objectiveID)
	return args.Error(0)
}

func (m *MockObjectiveRepository) Submit(ctx context.Context, recs []model.MemberObjective, progress model.CycleProgress) error {
	args := m.Called(ctx, recs, progress)
	return args.Error(0)
}

func (m *MockObjectiveRepository) CycleProgress(ctx context.Context, userID, cycleID string) (*model.CycleProgress, error) {
	args := m.Called(ctx, userID, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CycleProgress), args.Error(1)
}

func (m *MockObjectiveRepository) CountCompleted(ctx context.Context, userID, section string) (int, error) {
	args := m.Called(ctx, userID, section)
	return args.Int(0), args.Error(1)
}

func (m *MockObjectiveRepository) SetHolders(ctx context.Context, objectiveID, section string, add, remove []string, at time.Time) error {
	args := m.Called(ctx, objectiveID, section, add, remove, at)
	return args.Error(0)
}
