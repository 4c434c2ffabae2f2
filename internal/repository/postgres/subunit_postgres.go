package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// SubunitPostgres is a PostgreSQL implementation of repository.SubunitRepository.
type SubunitPostgres struct {
	db *sql.DB
}

// NewSubunitPostgres creates a new SubunitPostgres repository.
func NewSubunitPostgres(db *sql.DB) *SubunitPostgres {
	return &SubunitPostgres{db: db}
}

var _ repository.SubunitRepository = (*SubunitPostgres)(nil)

const subunitColumns = `group_id, section_id, id, name, active, guide_uid, subguide_uid, created_at, updated_at`

func scanSubunit(s scanner) (*model.Subunit, error) {
	var su model.Subunit
	if err := s.Scan(
		&su.GroupID,
		&su.SectionID,
		&su.ID,
		&su.Name,
		&su.Active,
		&su.GuideUID,
		&su.SubGuideUID,
		&su.CreatedAt,
		&su.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &su, nil
}

// EnsureSection creates the group and section rows when missing.
func (r *SubunitPostgres) EnsureSection(ctx context.Context, groupID, sectionID string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO groups (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, groupID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sections (group_id, id) VALUES ($1, $2) ON CONFLICT (group_id, id) DO NOTHING`,
			groupID, sectionID)
		return err
	})
}

// List returns the sub-units of a section ordered by name.
func (r *SubunitPostgres) List(ctx context.Context, groupID, sectionID string) ([]model.Subunit, error) {
	const q = `SELECT ` + subunitColumns + ` FROM subunits WHERE group_id = $1 AND section_id = $2 ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, groupID, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Subunit, 0)
	for rows.Next() {
		su, err := scanSubunit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *su)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Find fetches one sub-unit.
func (r *SubunitPostgres) Find(ctx context.Context, ref model.SubunitRef) (*model.Subunit, error) {
	const q = `SELECT ` + subunitColumns + ` FROM subunits WHERE group_id = $1 AND section_id = $2 AND id = $3`
	return scanSubunit(r.db.QueryRowContext(ctx, q, ref.GroupID, ref.SectionID, ref.ID))
}

// Create inserts a new sub-unit.
func (r *SubunitPostgres) Create(ctx context.Context, s *model.Subunit) error {
	const q = `
		INSERT INTO subunits (group_id, section_id, id, name, active, guide_uid, subguide_uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', '', $6, $6)
	`
	_, err := r.db.ExecContext(ctx, q, s.GroupID, s.SectionID, s.ID, s.Name, s.Active, s.CreatedAt)
	return mapError(err)
}

// Upsert inserts s or refreshes its name and active flag.
func (r *SubunitPostgres) Upsert(ctx context.Context, s *model.Subunit) error {
	const q = `
		INSERT INTO subunits (group_id, section_id, id, name, active, guide_uid, subguide_uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '', $7, $7)
		ON CONFLICT (group_id, section_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			active = EXCLUDED.active,
			guide_uid = CASE WHEN EXCLUDED.guide_uid <> '' THEN EXCLUDED.guide_uid ELSE subunits.guide_uid END,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, q, s.GroupID, s.SectionID, s.ID, s.Name, s.Active, s.GuideUID, s.UpdatedAt)
	return err
}

// SetActive toggles a sub-unit; deactivation releases its guide and sub-guide.
func (r *SubunitPostgres) SetActive(ctx context.Context, ref model.SubunitRef, active bool, at time.Time) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if active {
			res, err := tx.ExecContext(ctx,
				`UPDATE subunits SET active = TRUE, updated_at = $4 WHERE group_id = $1 AND section_id = $2 AND id = $3`,
				ref.GroupID, ref.SectionID, ref.ID, at)
			if err != nil {
				return err
			}
			return requireAffected(res)
		}

		var guide, subGuide string
		err := tx.QueryRowContext(ctx,
			`SELECT guide_uid, subguide_uid FROM subunits WHERE group_id = $1 AND section_id = $2 AND id = $3 FOR UPDATE`,
			ref.GroupID, ref.SectionID, ref.ID).Scan(&guide, &subGuide)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE subunits SET active = FALSE, guide_uid = '', subguide_uid = '', updated_at = $4
			WHERE group_id = $1 AND section_id = $2 AND id = $3`,
			ref.GroupID, ref.SectionID, ref.ID, at); err != nil {
			return err
		}
		if guide != "" {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET is_guide = FALSE, updated_at = $2 WHERE id = $1`, guide, at); err != nil {
				return err
			}
		}
		if subGuide != "" {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET is_subguide = FALSE, updated_at = $2 WHERE id = $1`, subGuide, at); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetLeader fills a guide or sub-guide slot.
func (r *SubunitPostgres) SetLeader(ctx context.Context, ref model.SubunitRef, slot repository.LeaderSlot, userID string, at time.Time) error {
	var slotCol, otherCol, flag, otherFlag string
	switch slot {
	case repository.SlotGuide:
		slotCol, otherCol, flag, otherFlag = "guide_uid", "subguide_uid", "is_guide", "is_subguide"
	case repository.SlotSubGuide:
		slotCol, otherCol, flag, otherFlag = "subguide_uid", "guide_uid", "is_subguide", "is_guide"
	default:
		return fmt.Errorf("unknown leader slot %q", slot)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var previous string
		err := tx.QueryRowContext(ctx,
			`SELECT `+slotCol+` FROM subunits WHERE group_id = $1 AND section_id = $2 AND id = $3 FOR UPDATE`,
			ref.GroupID, ref.SectionID, ref.ID).Scan(&previous)
		if err != nil {
			return err
		}
		// one member cannot hold both slots
		if _, err := tx.ExecContext(ctx,
			`UPDATE subunits SET `+slotCol+` = $4,
				`+otherCol+` = CASE WHEN `+otherCol+` = $4 THEN '' ELSE `+otherCol+` END,
				updated_at = $5
			WHERE group_id = $1 AND section_id = $2 AND id = $3`,
			ref.GroupID, ref.SectionID, ref.ID, userID, at); err != nil {
			return err
		}
		if previous != "" && previous != userID {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET `+flag+` = FALSE, updated_at = $2 WHERE id = $1`, previous, at); err != nil {
				return err
			}
		}
		if userID != "" {
			res, err := tx.ExecContext(ctx,
				`UPDATE users SET `+flag+` = TRUE, `+otherFlag+` = FALSE, updated_at = $2 WHERE id = $1`, userID, at)
			if err != nil {
				return err
			}
			return requireAffected(res)
		}
		return nil
	})
}
