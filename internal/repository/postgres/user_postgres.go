package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, nin, email, name, totem, group_id, section_id, kind, subunit_id, stage,
		is_guide, is_subguide, roles, active, force_password_change, password_hash, created_at, updated_at`

func scanUser(s scanner) (*model.User, error) {
	var (
		u     model.User
		kind  string
		roles string
	)
	if err := s.Scan(
		&u.ID,
		&u.NIN,
		&u.Email,
		&u.Name,
		&u.Totem,
		&u.GroupID,
		&u.SectionID,
		&kind,
		&u.SubunitID,
		&u.Stage,
		&u.IsGuide,
		&u.IsSubGuide,
		&roles,
		&u.Active,
		&u.ForcePasswordChange,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Kind = model.Kind(kind)
	u.Roles = model.SplitRoles(roles)
	return &u, nil
}

// FindByID fetches a single user by id.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByNIN fetches a single user by membership number.
func (r *UserPostgres) FindByNIN(ctx context.Context, nin string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE nin = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, nin))
}

// List returns the users matching f ordered by name.
func (r *UserPostgres) List(ctx context.Context, f model.UserFilter) ([]model.User, error) {
	var w where
	if f.GroupID != "" {
		w.add("group_id = $%d", f.GroupID)
	}
	if f.SectionID != "" {
		w.add("section_id = $%d", f.SectionID)
	}
	if f.SubunitID != "" {
		w.add("subunit_id = $%d", f.SubunitID)
	}
	if f.Kind != "" {
		w.add("kind = $%d", string(f.Kind))
	}
	q := `SELECT ` + userColumns + ` FROM users` + w.String() + ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes the profile fields of u. It returns sql.ErrNoRows for an unknown id.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	return updateUser(ctx, r.db, u)
}

// UpdateVacating writes u and clears slot in the sub-unit it left, in one
// transaction. The slot is only cleared while it still names u.
func (r *UserPostgres) UpdateVacating(ctx context.Context, u *model.User, left model.SubunitRef, slot repository.LeaderSlot) error {
	var slotCol string
	switch slot {
	case repository.SlotGuide:
		slotCol = "guide_uid"
	case repository.SlotSubGuide:
		slotCol = "subguide_uid"
	default:
		return fmt.Errorf("unknown leader slot %q", slot)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE subunits SET `+slotCol+` = '', updated_at = $5
			WHERE group_id = $1 AND section_id = $2 AND id = $3 AND `+slotCol+` = $4`,
			left.GroupID, left.SectionID, left.ID, u.ID, u.UpdatedAt); err != nil {
			return err
		}
		return updateUser(ctx, tx, u)
	})
}

func updateUser(ctx context.Context, ex execer, u *model.User) error {
	const q = `
		UPDATE users SET
			name = $2, totem = $3, group_id = $4, section_id = $5, kind = $6, subunit_id = $7,
			stage = $8, is_guide = $9, is_subguide = $10, roles = $11, active = $12, updated_at = $13
		WHERE id = $1
	`
	res, err := ex.ExecContext(ctx, q,
		u.ID,
		u.Name,
		u.Totem,
		u.GroupID,
		u.SectionID,
		string(u.Kind),
		u.SubunitID,
		u.Stage,
		u.IsGuide,
		u.IsSubGuide,
		model.JoinRoles(u.Roles),
		u.Active,
		u.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// UpsertByNIN inserts u or refreshes the profile of the user holding u.NIN.
func (r *UserPostgres) UpsertByNIN(ctx context.Context, u *model.User) (bool, error) {
	const q = `
		INSERT INTO users (id, nin, email, name, totem, group_id, section_id, kind, subunit_id, stage,
			is_guide, is_subguide, roles, active, force_password_change, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		ON CONFLICT (nin) DO UPDATE SET
			email = EXCLUDED.email, name = EXCLUDED.name, group_id = EXCLUDED.group_id,
			section_id = EXCLUDED.section_id, kind = EXCLUDED.kind, subunit_id = EXCLUDED.subunit_id,
			stage = EXCLUDED.stage, is_guide = EXCLUDED.is_guide, is_subguide = EXCLUDED.is_subguide,
			roles = EXCLUDED.roles, active = EXCLUDED.active, updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.NIN,
		u.Email,
		u.Name,
		u.Totem,
		u.GroupID,
		u.SectionID,
		string(u.Kind),
		u.SubunitID,
		u.Stage,
		u.IsGuide,
		u.IsSubGuide,
		model.JoinRoles(u.Roles),
		u.Active,
		u.ForcePasswordChange,
		u.PasswordHash,
		u.UpdatedAt,
	).Scan(&u.ID, &inserted)
	if err != nil {
		return false, mapError(err)
	}
	return inserted, nil
}

// SetPassword replaces the password hash and the forced-change flag.
func (r *UserPostgres) SetPassword(ctx context.Context, id string, hash []byte, force bool, at time.Time) error {
	const q = `UPDATE users SET password_hash = $2, force_password_change = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, hash, force, at)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteByEmailSuffix removes every user whose e-mail ends with suffix.
func (r *UserPostgres) DeleteByEmailSuffix(ctx context.Context, suffix string) (int64, error) {
	const q = `DELETE FROM users WHERE email LIKE '%' || $1`
	res, err := r.db.ExecContext(ctx, q, suffix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
