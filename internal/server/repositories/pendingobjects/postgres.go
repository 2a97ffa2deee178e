package pendingobjects

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnqueueForDiary queues every image key of the diary. It must run before
// the image_keys rows are deleted.
func (r *PostgresRepository) EnqueueForDiary(ctx context.Context, diaryID string) error {
	query := `
		INSERT INTO storage_cleanup (key)
		SELECT ik.key FROM image_keys ik
		JOIN entries e ON e.id = ik.entry_id
		WHERE e.diary_id = $1
		ON CONFLICT (key) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, diaryID); err != nil {
		return fmt.Errorf("failed to enqueue objects: %w", err)
	}
	return nil
}

func (r *PostgresRepository) EnqueueForEntry(ctx context.Context, entryID string) error {
	query := `
		INSERT INTO storage_cleanup (key)
		SELECT key FROM image_keys WHERE entry_id = $1
		ON CONFLICT (key) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("failed to enqueue objects: %w", err)
	}
	return nil
}

// List returns up to limit queued keys, oldest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT key FROM storage_cleanup ORDER BY enqueued_at, key LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued objects: %w", err)
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

func (r *PostgresRepository) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM storage_cleanup WHERE key = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to dequeue objects: %w", err)
	}
	return nil
}

// Requeue stamps keys with the current time so that keys failing on every
// run do not keep the rest of the queue out of the batch.
func (r *PostgresRepository) Requeue(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `UPDATE storage_cleanup SET enqueued_at = now() WHERE key = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to requeue objects: %w", err)
	}
	return nil
}
