package repository

import (
	"context"
	"time"

	"azimute/internal/model"
)

// UserRepository defines data access for member and leader profiles.
// Lookups return sql.ErrNoRows when nothing matches.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByNIN(ctx context.Context, nin string) (*model.User, error)

	// List returns the users matching f ordered by name.
	List(ctx context.Context, f model.UserFilter) ([]model.User, error)

	// Update writes the profile fields of u (everything but credentials and created_at).
	Update(ctx context.Context, u *model.User) error

	// UpdateVacating is Update for a guide or sub-guide leaving sub-unit left:
	// the slot they held there is cleared in the same transaction.
	UpdateVacating(ctx context.Context, u *model.User, left model.SubunitRef, slot LeaderSlot) error

	// UpsertByNIN inserts u or, when the NIN is known, refreshes its profile fields.
	// The password hash is only written on insert. u.ID is set to the stored id.
	UpsertByNIN(ctx context.Context, u *model.User) (created bool, err error)

	// SetPassword replaces the password hash and the forced-change flag.
	SetPassword(ctx context.Context, id string, hash []byte, force bool, at time.Time) error

	// DeleteByEmailSuffix removes every user whose e-mail ends with suffix.
	DeleteByEmailSuffix(ctx context.Context, suffix string) (int64, error)
}
