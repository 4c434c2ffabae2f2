package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_groups",
		SQL: `CREATE TABLE IF NOT EXISTS groups (
  id   TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_sections",
		SQL: `CREATE TABLE IF NOT EXISTS sections (
  group_id TEXT NOT NULL REFERENCES groups (id) ON DELETE CASCADE,
  id       TEXT NOT NULL,
  name     TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (group_id, id)
);`,
	},
	{
		Name: "create_table_subunits",
		SQL: `CREATE TABLE IF NOT EXISTS subunits (
  group_id      TEXT        NOT NULL,
  section_id    TEXT        NOT NULL,
  id            TEXT        NOT NULL,
  name          TEXT        NOT NULL,
  active        BOOLEAN     NOT NULL DEFAULT TRUE,
  guide_uid     TEXT        NOT NULL DEFAULT '',
  subguide_uid  TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (group_id, section_id, id)
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                    TEXT        PRIMARY KEY,
  nin                   TEXT        NOT NULL UNIQUE,
  email                 TEXT        NOT NULL UNIQUE,
  name                  TEXT        NOT NULL,
  totem                 TEXT        NOT NULL DEFAULT '',
  group_id              TEXT        NOT NULL,
  section_id            TEXT        NOT NULL DEFAULT '',
  kind                  TEXT        NOT NULL CHECK (kind IN ('ELEMENTO', 'DIRIGENTE')),
  subunit_id            TEXT        NOT NULL DEFAULT '',
  stage                 TEXT        NOT NULL DEFAULT '',
  is_guide              BOOLEAN     NOT NULL DEFAULT FALSE,
  is_subguide           BOOLEAN     NOT NULL DEFAULT FALSE,
  roles                 TEXT        NOT NULL DEFAULT '',
  active                BOOLEAN     NOT NULL DEFAULT TRUE,
  force_password_change BOOLEAN     NOT NULL DEFAULT FALSE,
  password_hash         BYTEA       NOT NULL,
  created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_section",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_section ON users (group_id, section_id, subunit_id);`,
	},
	{
		Name: "create_table_catalog_objectives",
		SQL: `CREATE TABLE IF NOT EXISTS catalog_objectives (
  id          TEXT        PRIMARY KEY,
  section     TEXT        NOT NULL,
  area        TEXT        NOT NULL,
  trail       TEXT        NOT NULL DEFAULT '',
  code        TEXT        NOT NULL DEFAULT '',
  description TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_catalog_objectives_section",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_catalog_objectives_section ON catalog_objectives (section, area);`,
	},
	{
		Name: "create_table_member_objectives",
		SQL: `CREATE TABLE IF NOT EXISTS member_objectives (
  user_id            TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  objective_id       TEXT        NOT NULL REFERENCES catalog_objectives (id) ON DELETE CASCADE,
  section            TEXT        NOT NULL,
  state              TEXT        NOT NULL,
  blocked            BOOLEAN     NOT NULL DEFAULT FALSE,
  assigned_by_leader BOOLEAN     NOT NULL DEFAULT FALSE,
  chosen_at          TIMESTAMPTZ,
  submitted_at       TIMESTAMPTZ,
  validated_at       TIMESTAMPTZ,
  validated_by       TEXT        NOT NULL DEFAULT '',
  confirmed_at       TIMESTAMPTZ,
  realized_at        TIMESTAMPTZ,
  completed_at       TIMESTAMPTZ,
  rejected_at        TIMESTAMPTZ,
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (user_id, objective_id)
);`,
	},
	{
		Name: "create_index_member_objectives_state",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_member_objectives_state ON member_objectives (state);`,
	},
	{
		Name: "create_table_cycle_progress",
		SQL: `CREATE TABLE IF NOT EXISTS cycle_progress (
  user_id            TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  cycle_id           TEXT        NOT NULL,
  first_submitted_at TIMESTAMPTZ,
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (user_id, cycle_id)
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id           TEXT        PRIMARY KEY,
  group_id     TEXT        NOT NULL,
  section_id   TEXT        NOT NULL DEFAULT '',
  action       TEXT        NOT NULL,
  description  TEXT        NOT NULL,
  member_name  TEXT        NOT NULL DEFAULT '',
  member_id    TEXT        NOT NULL DEFAULT '',
  subunit_id   TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  resolved     BOOLEAN     NOT NULL DEFAULT FALSE,
  resolved_at  TIMESTAMPTZ,
  resolved_by  TEXT        NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_notifications_group",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_group ON notifications (group_id, created_at DESC);`,
	},
	{
		Name: "create_table_posts",
		SQL: `CREATE TABLE IF NOT EXISTS posts (
  id          TEXT        PRIMARY KEY,
  group_id    TEXT        NOT NULL,
  title       TEXT        NOT NULL,
  body        TEXT        NOT NULL,
  link        TEXT        NOT NULL DEFAULT '',
  author      TEXT        NOT NULL,
  author_role TEXT        NOT NULL,
  author_id   TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  expires_at  TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_post_targets",
		SQL: `CREATE TABLE IF NOT EXISTS post_targets (
  post_id TEXT NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
  tag     TEXT NOT NULL,
  PRIMARY KEY (post_id, tag)
);`,
	},
	{
		Name: "create_table_post_archives",
		SQL: `CREATE TABLE IF NOT EXISTS post_archives (
  post_id     TEXT        NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
  user_id     TEXT        NOT NULL,
  archived_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (post_id, user_id)
);`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
