// Package posts stores photo posts and their ordered links to image keys.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectPost = `
	SELECT p.id, p.entry_id, p.title, p.description, p."order", p.deleting,
	       COALESCE(array_agg(pi.image_key ORDER BY pi.position)
	                FILTER (WHERE pi.image_key IS NOT NULL), '{}')
	FROM posts p
	LEFT JOIN post_images pi ON pi.post_id = p.id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	p := &models.Post{}
	var keys pq.StringArray
	if err := s.Scan(&p.ID, &p.EntryID, &p.Title, &p.Description, &p.Order, &p.Deleting, &keys); err != nil {
		return nil, err
	}
	p.ImageKeys = []string(keys)
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	query := `
		INSERT INTO posts (entry_id, title, description, "order")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	created := *p
	created.ImageKeys = nil
	if err := r.db.QueryRowContext(ctx, query, p.EntryID, p.Title, p.Description, p.Order).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

// LinkImages links keys to the post keeping their order as position.
func (r *PostgresRepository) LinkImages(ctx context.Context, postID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `
		INSERT INTO post_images (post_id, image_key, position)
		SELECT $1, k.key, k.ord - 1
		FROM unnest($2::text[]) WITH ORDINALITY AS k(key, ord)
	`
	if _, err := r.db.ExecContext(ctx, query, postID, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to link images: %w", err)
	}
	return nil
}

// ListByEntry returns the entry's posts that are not being deleted.
func (r *PostgresRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Post, error) {
	query := selectPost + `
		WHERE p.entry_id = $1 AND NOT p.deleting
		GROUP BY p.id
		ORDER BY p."order", p.id
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	query := selectPost + `
		WHERE p.id = $1 AND NOT p.deleting
		GROUP BY p.id
	`
	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Update overwrites title, description and order.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Post) error {
	query := `
		UPDATE posts SET title = $2, description = $3, "order" = $4
		WHERE id = $1 AND NOT deleting
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Title, p.Description, p.Order)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) HasAccess(ctx context.Context, userID, postID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM posts p
			JOIN entries e ON e.id = p.entry_id
			JOIN diary_users du ON du.diary_id = e.diary_id
			WHERE du.user_id = $1 AND p.id = $2
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) DeleteImageLinks(ctx context.Context, postID string) error {
	return r.exec(ctx, "failed to delete post images", `DELETE FROM post_images WHERE post_id = $1`, postID)
}

func (r *PostgresRepository) Delete(ctx context.Context, postID string) error {
	return r.exec(ctx, "failed to delete post", `DELETE FROM posts WHERE id = $1`, postID)
}

func (r *PostgresRepository) DeleteImageLinksByDiary(ctx context.Context, diaryID string) error {
	query := `
		DELETE FROM post_images
		WHERE post_id IN (
			SELECT p.id FROM posts p
			JOIN entries e ON e.id = p.entry_id
			WHERE e.diary_id = $1
		)
	`
	return r.exec(ctx, "failed to delete post images", query, diaryID)
}

func (r *PostgresRepository) DeleteImageLinksByEntry(ctx context.Context, entryID string) error {
	query := `
		DELETE FROM post_images
		WHERE post_id IN (SELECT id FROM posts WHERE entry_id = $1)
	`
	return r.exec(ctx, "failed to delete post images", query, entryID)
}

func (r *PostgresRepository) DeleteByDiary(ctx context.Context, diaryID string) error {
	query := `
		DELETE FROM posts
		WHERE entry_id IN (SELECT id FROM entries WHERE diary_id = $1)
	`
	return r.exec(ctx, "failed to delete posts", query, diaryID)
}

func (r *PostgresRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	return r.exec(ctx, "failed to delete posts", `DELETE FROM posts WHERE entry_id = $1`, entryID)
}

func (r *PostgresRepository) LinkedKeys(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := `SELECT DISTINCT image_key FROM post_images WHERE image_key = ANY($1)`
	return r.selectKeys(ctx, query, pq.Array(keys))
}

func (r *PostgresRepository) exec(ctx context.Context, msg, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return nil
}

func (r *PostgresRepository) selectKeys(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select image keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
