package postgres

import (
	"context"
	"database/sql"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, group_id, section_id, action, description, member_name, member_id, subunit_id,
		created_at, resolved, resolved_at, resolved_by`

func scanNotification(s scanner) (*model.Notification, error) {
	var n model.Notification
	if err := s.Scan(
		&n.ID,
		&n.GroupID,
		&n.SectionID,
		&n.Action,
		&n.Description,
		&n.MemberName,
		&n.MemberID,
		&n.SubunitID,
		&n.CreatedAt,
		&n.Resolved,
		&n.ResolvedAt,
		&n.ResolvedBy,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a notification.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) error {
	const q = `
		INSERT INTO notifications (id, group_id, section_id, action, description, member_name, member_id,
			subunit_id, created_at, resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE)
	`
	_, err := r.db.ExecContext(ctx, q,
		n.ID,
		n.GroupID,
		n.SectionID,
		n.Action,
		n.Description,
		n.MemberName,
		n.MemberID,
		n.SubunitID,
		n.CreatedAt,
	)
	return mapError(err)
}

// FindByID fetches one notification.
func (r *NotificationPostgres) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, q, id))
}

// List returns a page of the group's notifications newest first and the total count.
func (r *NotificationPostgres) List(ctx context.Context, nq repository.NotificationQuery) (*repository.PageResult[model.Notification], error) {
	var w where
	w.add("group_id = $%d", nq.GroupID)
	if nq.Resolved != nil {
		w.add("resolved = $%d", *nq.Resolved)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	args := append(w.args, nq.Page.Limit, nq.Page.Offset)
	q := `SELECT ` + notificationColumns + ` FROM notifications` + w.String() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + placeholders(len(w.args)+1, 1) + ` OFFSET ` + placeholders(len(w.args)+2, 1)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Notification]{
		Items: items,
		Total: total,
	}, nil
}

// Resolve marks a notification done.
func (r *NotificationPostgres) Resolve(ctx context.Context, id, by string, at time.Time) error {
	const q = `UPDATE notifications SET resolved = TRUE, resolved_at = $2, resolved_by = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, at, by)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// HasPending reports whether memberID has an unresolved notification of action.
func (r *NotificationPostgres) HasPending(ctx context.Context, memberID, action string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM notifications WHERE member_id = $1 AND action = $2 AND resolved = FALSE)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, memberID, action).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
