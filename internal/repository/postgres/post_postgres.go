package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
)

// PostPostgres is a PostgreSQL implementation of repository.PostRepository.
type PostPostgres struct {
	db *sql.DB
}

// NewPostPostgres creates a new PostPostgres repository.
func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ repository.PostRepository = (*PostPostgres)(nil)

const postColumns = `p.id, p.group_id, p.title, p.body, p.link, p.author, p.author_role, p.author_id,
		p.created_at, p.expires_at, string_agg(t.tag, '|' ORDER BY t.tag)`

func scanPost(s scanner) (*model.Post, error) {
	var (
		p    model.Post
		tags string
	)
	if err := s.Scan(
		&p.ID,
		&p.GroupID,
		&p.Title,
		&p.Body,
		&p.Link,
		&p.Author,
		&p.AuthorRole,
		&p.AuthorID,
		&p.CreatedAt,
		&p.ExpiresAt,
		&tags,
	); err != nil {
		return nil, err
	}
	p.Targets = strings.Split(tags, "|")
	return &p, nil
}

// Create stores a post and its targets.
func (r *PostPostgres) Create(ctx context.Context, p *model.Post) error {
	const qPost = `
		INSERT INTO posts (id, group_id, title, body, link, author, author_role, author_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	const qTarget = `INSERT INTO post_targets (post_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, qPost,
			p.ID,
			p.GroupID,
			p.Title,
			p.Body,
			p.Link,
			p.Author,
			p.AuthorRole,
			p.AuthorID,
			p.CreatedAt,
			p.ExpiresAt,
		); err != nil {
			return mapError(err)
		}
		for _, tag := range p.Targets {
			if _, err := tx.ExecContext(ctx, qTarget, p.ID, tag); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID fetches one post with its targets.
func (r *PostPostgres) FindByID(ctx context.Context, id string) (*model.Post, error) {
	const q = `SELECT ` + postColumns + `
		FROM posts p JOIN post_targets t ON t.post_id = p.id
		WHERE p.id = $1
		GROUP BY p.id`
	return scanPost(r.db.QueryRowContext(ctx, q, id))
}

// Feed returns the visible posts of a reader.
func (r *PostPostgres) Feed(ctx context.Context, groupID, userID string, tags []string, now time.Time) ([]model.Post, error) {
	items := make([]model.Post, 0)
	if len(tags) == 0 {
		return items, nil
	}
	q := `SELECT ` + postColumns + `
		FROM posts p JOIN post_targets t ON t.post_id = p.id
		WHERE p.group_id = $1 AND p.expires_at > $2
			AND NOT EXISTS (SELECT 1 FROM post_archives a WHERE a.post_id = p.id AND a.user_id = $3)
		GROUP BY p.id
		HAVING bool_or(t.tag IN (` + placeholders(4, len(tags)) + `))
		ORDER BY p.created_at DESC, p.id DESC`
	args := append([]any{groupID, now, userID}, stringArgs(tags)...)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Archive hides a post from one reader.
func (r *PostPostgres) Archive(ctx context.Context, postID, userID string, at time.Time) error {
	const q = `
		INSERT INTO post_archives (post_id, user_id, archived_at) VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, postID, userID, at)
	return err
}
