package repository

import (
	"context"
	"time"

	"azimute/internal/model"
)

// NotificationQuery filters a group's notifications. A nil Resolved matches both.
type NotificationQuery struct {
	GroupID  string
	Resolved *bool
	Page     PageQuery
}

// NotificationRepository defines data access for secretary notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// List returns notifications newest first.
	List(ctx context.Context, q NotificationQuery) (*PageResult[model.Notification], error)

	Resolve(ctx context.Context, id, by string, at time.Time) error

	// HasPending reports whether memberID has an unresolved notification of action.
	HasPending(ctx context.Context, memberID, action string) (bool, error)
}

// PostRepository defines data access for the bulletin board.
type PostRepository interface {
	// Create stores the post and its targets in one transaction.
	Create(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// Feed returns the group's posts addressed to any of tags, not expired at now
	// and not archived by userID, newest first.
	Feed(ctx context.Context, groupID, userID string, tags []string, now time.Time) ([]model.Post, error)

	// Archive hides a post from userID's feed. Archiving twice is a no-op.
	Archive(ctx context.Context, postID, userID string, at time.Time) error
}
