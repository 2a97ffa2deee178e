// Package entries provides the PostgreSQL-backed repository for dated
// diary entries.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an entry for day. A diary holds at most one entry per day;
// a second one yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, diaryID string, day time.Time) (*models.Entry, error) {
	query := `
		INSERT INTO entries (diary_id, day)
		VALUES ($1, $2)
		RETURNING id, diary_id, day, updated_at
	`
	e := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, diaryID, day).Scan(&e.ID, &e.DiaryID, &e.Day, &e.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// ListByDiary returns the diary's entries, newest day first.
func (r *PostgresRepository) ListByDiary(ctx context.Context, diaryID string) ([]*models.Entry, error) {
	query := `
		SELECT id, diary_id, day, updated_at FROM entries
		WHERE diary_id = $1
		ORDER BY day DESC
	`
	rows, err := r.db.QueryContext(ctx, query, diaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.DiaryID, &e.Day, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT id, diary_id, day, updated_at FROM entries WHERE id = $1`

	e := &models.Entry{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.DiaryID, &e.Day, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Touch bumps updated_at of the entry and of its diary.
func (r *PostgresRepository) Touch(ctx context.Context, id string) error {
	query := `
		WITH e AS (
			UPDATE entries SET updated_at = now() WHERE id = $1 RETURNING diary_id
		)
		UPDATE diaries SET updated_at = now() WHERE id IN (SELECT diary_id FROM e)
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to touch entry: %w", err)
	}
	return nil
}

// HasAccess reports whether userID is linked to the diary owning entryID.
func (r *PostgresRepository) HasAccess(ctx context.Context, userID, entryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entries e
			JOIN diary_users du ON du.diary_id = e.diary_id
			WHERE du.user_id = $1 AND e.id = $2
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, entryID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) DeleteByDiary(ctx context.Context, diaryID string) error {
	query := `DELETE FROM entries WHERE diary_id = $1`
	if _, err := r.db.ExecContext(ctx, query, diaryID); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM entries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
