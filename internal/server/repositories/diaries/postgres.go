// Package diaries provides the PostgreSQL-backed diary repository,
// including the diary_users access join.
package diaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

// PostgresRepository implements diary storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Diary, error) {
	query := `
		INSERT INTO diaries (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`
	d := &models.Diary{}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// AddUser grants userID access to diaryID. Granting twice is a no-op.
func (r *PostgresRepository) AddUser(ctx context.Context, diaryID, userID string) error {
	query := `
		INSERT INTO diary_users (diary_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, diaryID, userID); err != nil {
		return fmt.Errorf("failed to add diary user: %w", err)
	}
	return nil
}

// ListForUser returns the diaries userID can access, most recently updated first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.Diary, error) {
	query := `
		SELECT d.id, d.name, d.created_at, d.updated_at
		FROM diaries d
		JOIN diary_users du ON du.diary_id = d.id
		WHERE du.user_id = $1
		ORDER BY d.updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select diaries: %w", err)
	}
	defer rows.Close()

	var result []*models.Diary
	for rows.Next() {
		var d models.Diary
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Diary, error) {
	query := `SELECT id, name, created_at, updated_at FROM diaries WHERE id = $1`

	d := &models.Diary{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE diaries SET name = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename diary: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// HasAccess reports whether userID is linked to diaryID.
func (r *PostgresRepository) HasAccess(ctx context.Context, userID, diaryID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM diary_users WHERE user_id = $1 AND diary_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, diaryID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) DeleteUsers(ctx context.Context, diaryID string) error {
	query := `DELETE FROM diary_users WHERE diary_id = $1`
	if _, err := r.db.ExecContext(ctx, query, diaryID); err != nil {
		return fmt.Errorf("failed to delete diary users: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM diaries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete diary: %w", err)
	}
	return nil
}
