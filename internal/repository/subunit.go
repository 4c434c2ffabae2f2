package repository

import (
	"context"
	"time"

	"azimute/internal/model"
)

// LeaderSlot names a sub-unit leadership position.
type LeaderSlot string

const (
	SlotGuide    LeaderSlot = "guide"
	SlotSubGuide LeaderSlot = "subguide"
)

// SubunitRepository defines data access for groups, sections and their sub-units.
type SubunitRepository interface {
	// EnsureSection creates the group and section rows when missing.
	EnsureSection(ctx context.Context, groupID, sectionID string) error

	List(ctx context.Context, groupID, sectionID string) ([]model.Subunit, error)
	Find(ctx context.Context, ref model.SubunitRef) (*model.Subunit, error)

	// Create inserts a new sub-unit; an existing id yields ErrConflict.
	Create(ctx context.Context, s *model.Subunit) error

	// Upsert inserts s or refreshes its name and active flag. A non-empty
	// GuideUID replaces the stored guide.
	Upsert(ctx context.Context, s *model.Subunit) error

	// SetActive toggles a sub-unit. Deactivation also clears the guide and
	// sub-guide slots and the matching user flags, atomically.
	SetActive(ctx context.Context, ref model.SubunitRef, active bool, at time.Time) error

	// SetLeader puts userID (empty to clear) in slot. The previous holder loses the
	// flag and the new holder loses the flag of the other slot, atomically.
	SetLeader(ctx context.Context, ref model.SubunitRef, slot LeaderSlot, userID string, at time.Time) error
}
