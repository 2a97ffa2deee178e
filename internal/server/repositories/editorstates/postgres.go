package editorstates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entryID string, data []byte) error {
	query := `INSERT INTO editor_states (entry_id, data) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, entryID, data); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, entryID string) (*models.EditorState, error) {
	query := `SELECT entry_id, data FROM editor_states WHERE entry_id = $1`

	s := &models.EditorState{}
	if err := r.db.QueryRowContext(ctx, query, entryID).Scan(&s.EntryID, &s.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Save replaces the document of the entry, creating the row if missing.
func (r *PostgresRepository) Save(ctx context.Context, entryID string, data []byte) error {
	query := `
		INSERT INTO editor_states (entry_id, data) VALUES ($1, $2)
		ON CONFLICT (entry_id) DO UPDATE SET data = EXCLUDED.data
	`
	if _, err := r.db.ExecContext(ctx, query, entryID, data); err != nil {
		return fmt.Errorf("failed to save editor state: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByDiary(ctx context.Context, diaryID string) error {
	query := `
		DELETE FROM editor_states
		WHERE entry_id IN (SELECT id FROM entries WHERE diary_id = $1)
	`
	if _, err := r.db.ExecContext(ctx, query, diaryID); err != nil {
		return fmt.Errorf("failed to delete editor states: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM editor_states WHERE entry_id = $1`
	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("failed to delete editor state: %w", err)
	}
	return nil
}
