package repository

import (
	"context"
	"time"

	"azimute/internal/model"
)

// ObjectiveRepository defines data access for member progress records.
type ObjectiveRepository interface {
	// Find returns sql.ErrNoRows when the member has no record (objective available).
	Find(ctx context.Context, userID, objectiveID string) (*model.MemberObjective, error)
	ListByUser(ctx context.Context, userID string) ([]model.MemberObjective, error)

	// ListWithOwner joins records with their owners' roster fields.
	ListWithOwner(ctx context.Context, f model.ObjectiveFilter) ([]model.ObjectiveWithOwner, error)

	// Save upserts a record.
	Save(ctx context.Context, rec *model.MemberObjective) error
	Delete(ctx context.Context, userID, objectiveID string) error

	// Submit writes a member's proposals and cycle metadata in one transaction.
	Submit(ctx context.Context, recs []model.MemberObjective, progress model.CycleProgress) error

	// CycleProgress returns sql.ErrNoRows when the member never submitted in cycleID.
	CycleProgress(ctx context.Context, userID, cycleID string) (*model.CycleProgress, error)

	// CountCompleted counts the member's CONCLUIDO records in section.
	CountCompleted(ctx context.Context, userID, section string) (int, error)

	// SetHolders completes objectiveID for the add users (assigned by the leader)
	// and deletes it for the remove users, in one transaction.
	SetHolders(ctx context.Context, objectiveID, section string, add, remove []string, at time.Time) error
}
