package postgres

import (
	"context"
	"database/sql"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// ObjectivePostgres is a PostgreSQL implementation of repository.ObjectiveRepository.
type ObjectivePostgres struct {
	db *sql.DB
}

// NewObjectivePostgres creates a new ObjectivePostgres repository.
func NewObjectivePostgres(db *sql.DB) *ObjectivePostgres {
	return &ObjectivePostgres{db: db}
}

var _ repository.ObjectiveRepository = (*ObjectivePostgres)(nil)

const objectiveColumns = `m.user_id, m.objective_id, m.section, m.state, m.blocked, m.assigned_by_leader,
		m.chosen_at, m.submitted_at, m.validated_at, m.validated_by, m.confirmed_at, m.realized_at,
		m.completed_at, m.rejected_at, m.updated_at`

func objectiveDest(m *model.MemberObjective) []any {
	return []any{
		&m.UserID,
		&m.ObjectiveID,
		&m.Section,
		&m.State,
		&m.Blocked,
		&m.AssignedByLeader,
		&m.ChosenAt,
		&m.SubmittedAt,
		&m.ValidatedAt,
		&m.ValidatedBy,
		&m.ConfirmedAt,
		&m.RealizedAt,
		&m.CompletedAt,
		&m.RejectedAt,
		&m.UpdatedAt,
	}
}

const saveObjective = `
	INSERT INTO member_objectives (user_id, objective_id, section, state, blocked, assigned_by_leader,
		chosen_at, submitted_at, validated_at, validated_by, confirmed_at, realized_at,
		completed_at, rejected_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (user_id, objective_id) DO UPDATE SET
		section = EXCLUDED.section, state = EXCLUDED.state, blocked = EXCLUDED.blocked,
		assigned_by_leader = EXCLUDED.assigned_by_leader, chosen_at = EXCLUDED.chosen_at,
		submitted_at = EXCLUDED.submitted_at, validated_at = EXCLUDED.validated_at,
		validated_by = EXCLUDED.validated_by, confirmed_at = EXCLUDED.confirmed_at,
		realized_at = EXCLUDED.realized_at, completed_at = EXCLUDED.completed_at,
		rejected_at = EXCLUDED.rejected_at, updated_at = EXCLUDED.updated_at
`

func saveArgs(m *model.MemberObjective) []any {
	return []any{
		m.UserID,
		m.ObjectiveID,
		m.Section,
		m.State,
		m.Blocked,
		m.AssignedByLeader,
		m.ChosenAt,
		m.SubmittedAt,
		m.ValidatedAt,
		m.ValidatedBy,
		m.ConfirmedAt,
		m.RealizedAt,
		m.CompletedAt,
		m.RejectedAt,
		m.UpdatedAt,
	}
}

// Find fetches one progress record.
func (r *ObjectivePostgres) Find(ctx context.Context, userID, objectiveID string) (*model.MemberObjective, error) {
	const q = `SELECT ` + objectiveColumns + ` FROM member_objectives m WHERE m.user_id = $1 AND m.objective_id = $2`
	var m model.MemberObjective
	if err := r.db.QueryRowContext(ctx, q, userID, objectiveID).Scan(objectiveDest(&m)...); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByUser returns every record of a member.
func (r *ObjectivePostgres) ListByUser(ctx context.Context, userID string) ([]model.MemberObjective, error) {
	const q = `SELECT ` + objectiveColumns + ` FROM member_objectives m WHERE m.user_id = $1 ORDER BY m.objective_id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MemberObjective, 0)
	for rows.Next() {
		var m model.MemberObjective
		if err := rows.Scan(objectiveDest(&m)...); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListWithOwner joins records with their owners and catalogue entries, ordered by owner name.
func (r *ObjectivePostgres) ListWithOwner(ctx context.Context, f model.ObjectiveFilter) ([]model.ObjectiveWithOwner, error) {
	var w where
	w.add("u.kind = $%d", string(model.KindElemento))
	if f.GroupID != "" {
		w.add("u.group_id = $%d", f.GroupID)
	}
	if f.SectionID != "" {
		w.add("u.section_id = $%d", f.SectionID)
	}
	if f.SubunitID != "" {
		w.add("u.subunit_id = $%d", f.SubunitID)
	}
	if f.ObjectiveID != "" {
		w.add("m.objective_id = $%d", f.ObjectiveID)
	}
	if len(f.States) > 0 {
		w.args = append(w.args, stringArgs(f.States)...)
		w.conds = append(w.conds, "m.state IN ("+placeholders(len(w.args)-len(f.States)+1, len(f.States))+")")
	}
	q := `SELECT ` + objectiveColumns + `, u.name, u.totem, u.section_id, u.subunit_id, (u.is_guide OR u.is_subguide),
			COALESCE(c.area, ''), COALESCE(c.trail, ''), COALESCE(c.code, ''), COALESCE(c.description, '')
		FROM member_objectives m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN catalog_objectives c ON c.id = m.objective_id` + w.String() + `
		ORDER BY u.name, m.objective_id`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ObjectiveWithOwner, 0)
	for rows.Next() {
		var o model.ObjectiveWithOwner
		dest := append(objectiveDest(&o.MemberObjective),
			&o.OwnerName,
			&o.OwnerTotem,
			&o.OwnerSectionID,
			&o.OwnerSubunitID,
			&o.OwnerIsGuideSub,
			&o.Area,
			&o.Trail,
			&o.Code,
			&o.Description,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Save upserts a record.
func (r *ObjectivePostgres) Save(ctx context.Context, rec *model.MemberObjective) error {
	_, err := r.db.ExecContext(ctx, saveObjective, saveArgs(rec)...)
	return err
}

// Delete removes a record. Deleting a missing record is not an error.
func (r *ObjectivePostgres) Delete(ctx context.Context, userID, objectiveID string) error {
	const q = `DELETE FROM member_objectives WHERE user_id = $1 AND objective_id = $2`
	_, err := r.db.ExecContext(ctx, q, userID, objectiveID)
	return err
}

// Submit writes proposals and cycle metadata in one transaction. A cycle row that
// already carries first_submitted_at keeps it.
func (r *ObjectivePostgres) Submit(ctx context.Context, recs []model.MemberObjective, progress model.CycleProgress) error {
	const qCycle = `
		INSERT INTO cycle_progress (user_id, cycle_id, first_submitted_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, cycle_id) DO UPDATE SET
			first_submitted_at = COALESCE(cycle_progress.first_submitted_at, EXCLUDED.first_submitted_at),
			updated_at = EXCLUDED.updated_at
	`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range recs {
			if _, err := tx.ExecContext(ctx, saveObjective, saveArgs(&recs[i])...); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, qCycle,
			progress.UserID,
			progress.CycleID,
			progress.FirstSubmittedAt,
			progress.UpdatedAt,
		)
		return err
	})
}

// CycleProgress fetches a member's metadata for one scouting year.
func (r *ObjectivePostgres) CycleProgress(ctx context.Context, userID, cycleID string) (*model.CycleProgress, error) {
	const q = `SELECT user_id, cycle_id, first_submitted_at, updated_at FROM cycle_progress WHERE user_id = $1 AND cycle_id = $2`
	var p model.CycleProgress
	if err := r.db.QueryRowContext(ctx, q, userID, cycleID).Scan(
		&p.UserID,
		&p.CycleID,
		&p.FirstSubmittedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// CountCompleted counts a member's completed records in section.
func (r *ObjectivePostgres) CountCompleted(ctx context.Context, userID, section string) (int, error) {
	const q = `SELECT COUNT(*) FROM member_objectives WHERE user_id = $1 AND section = $2 AND state = 'CONCLUIDO'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, section).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetHolders marks objectiveID completed by the leader for every user in add
// and deletes the records of every user in remove, in one transaction.
func (r *ObjectivePostgres) SetHolders(ctx context.Context, objectiveID, section string, add, remove []string, at time.Time) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	const assign = `
		INSERT INTO member_objectives (user_id, objective_id, section, state, blocked, assigned_by_leader, completed_at, updated_at)
		VALUES ($1, $2, $3, 'CONCLUIDO', TRUE, TRUE, $4, $4)
		ON CONFLICT (user_id, objective_id) DO UPDATE SET
			state = 'CONCLUIDO', blocked = TRUE, assigned_by_leader = TRUE,
			completed_at = EXCLUDED.completed_at, updated_at = EXCLUDED.updated_at
	`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, uid := range add {
			if _, err := tx.ExecContext(ctx, assign, uid, objectiveID, section, at); err != nil {
				return err
			}
		}
		if len(remove) == 0 {
			return nil
		}
		q := `DELETE FROM member_objectives WHERE objective_id = $1 AND user_id IN (` + placeholders(2, len(remove)) + `)`
		_, err := tx.ExecContext(ctx, q, append([]any{objectiveID}, stringArgs(remove)...)...)
		return err
	})
}
