package service

import (
	"context"
	"strings"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// NotificationFilter selects notifications by resolution state.
type NotificationFilter string

const (
	FilterPending  NotificationFilter = "PENDENTES"
	FilterResolved NotificationFilter = "RESOLVIDAS"
	FilterAll      NotificationFilter = "TODAS"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ParseNotificationFilter reads a filter name; empty means pending.
func ParseNotificationFilter(s string) (NotificationFilter, error) {
	switch f := NotificationFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return FilterPending, nil
	case FilterPending, FilterResolved, FilterAll:
		return f, nil
	}
	return "", invalid("unknown notification filter %q", s)
}

// NotificationService is the secretary's to-do list.
type NotificationService interface {
	List(ctx context.Context, actor *model.User, filter NotificationFilter, page repository.PageQuery) (*repository.PageResult[model.Notification], error)
	// Resolve marks a notification done. Resolving twice keeps the first stamp.
	Resolve(ctx context.Context, actor *model.User, id string) (*model.Notification, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	clock         Clock
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, clock Clock) NotificationService {
	if clock == nil {
		clock = systemClock
	}
	return &notificationService{notifications: notifications, clock: clock}
}

func requireSecretary(actor *model.User) error {
	if !actor.IsDirigente() || !actor.HasRole(model.RoleSecretarioAgrupamento) {
		return forbidden("only the group secretary handles notifications")
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, actor *model.User, filter NotificationFilter, page repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	if err := requireSecretary(actor); err != nil {
		return nil, err
	}
	q := repository.NotificationQuery{GroupID: actor.GroupID, Page: NormalizePage(page)}
	switch filter {
	case FilterPending, "":
		q.Resolved = new(bool)
	case FilterResolved:
		resolved := true
		q.Resolved = &resolved
	case FilterAll:
	default:
		return nil, invalid("unknown notification filter %q", filter)
	}
	return s.notifications.List(ctx, q)
}

func (s *notificationService) Resolve(ctx context.Context, actor *model.User, id string) (*model.Notification, error) {
	if err := requireSecretary(actor); err != nil {
		return nil, err
	}
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, lookup("notification", err)
	}
	if n.GroupID != actor.GroupID {
		return nil, lookup("notification", repositoryMiss)
	}
	if n.Resolved {
		return n, nil
	}

	now := s.clock()
	if err := s.notifications.Resolve(ctx, id, actor.ID, now); err != nil {
		return nil, lookup("notification", err)
	}
	n.Resolved = true
	n.ResolvedAt = &now
	n.ResolvedBy = actor.ID
	return n, nil
}

// NormalizePage applies the default and maximum page size.
func NormalizePage(p repository.PageQuery) repository.PageQuery {
	if p.Limit <= 0 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
