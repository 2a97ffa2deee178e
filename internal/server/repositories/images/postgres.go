// Package images stores image bookkeeping rows and their optional
// geolocation, and hosts the queries of the orphan cleanup job.
package images

import (
	"context"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, img *models.ImageKey) error {
	query := `
		INSERT INTO image_keys (key, entry_id, upload_at, name, mimetype, size)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, img.Key, img.EntryID, img.UploadAt, img.Name, img.Mimetype, img.Size)
	if err != nil {
		return fmt.Errorf("failed to insert image key: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetGeoData(ctx context.Context, g *models.GeoData) error {
	query := `
		INSERT INTO geo_data (key, lon, lat) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET lon = EXCLUDED.lon, lat = EXCLUDED.lat
	`
	if _, err := r.db.ExecContext(ctx, query, g.Key, g.Lon, g.Lat); err != nil {
		return fmt.Errorf("failed to save geo data: %w", err)
	}
	return nil
}

// CountForEntry counts how many of keys belong to entryID and are not
// claimed by a cleanup run.
func (r *PostgresRepository) CountForEntry(ctx context.Context, entryID string, keys []string) (int, error) {
	query := `
		SELECT count(*) FROM image_keys
		WHERE entry_id = $1 AND key = ANY($2) AND NOT deleting
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, entryID, pq.Array(keys)).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteGeoDataByDiary(ctx context.Context, diaryID string) error {
	query := `
		DELETE FROM geo_data
		WHERE key IN (
			SELECT ik.key FROM image_keys ik
			JOIN entries e ON e.id = ik.entry_id
			WHERE e.diary_id = $1
		)
	`
	return r.exec(ctx, "failed to delete geo data", query, diaryID)
}

func (r *PostgresRepository) DeleteGeoDataByEntry(ctx context.Context, entryID string) error {
	query := `
		DELETE FROM geo_data
		WHERE key IN (SELECT key FROM image_keys WHERE entry_id = $1)
	`
	return r.exec(ctx, "failed to delete geo data", query, entryID)
}

func (r *PostgresRepository) DeleteByDiary(ctx context.Context, diaryID string) error {
	query := `
		DELETE FROM image_keys
		WHERE entry_id IN (SELECT id FROM entries WHERE diary_id = $1)
	`
	return r.exec(ctx, "failed to delete image keys", query, diaryID)
}

func (r *PostgresRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	return r.exec(ctx, "failed to delete image keys", `DELETE FROM image_keys WHERE entry_id = $1`, entryID)
}

func (r *PostgresRepository) SelectOrphans(ctx context.Context, uploadedBefore time.Time, limit int) ([]string, error) {
	query := `
		SELECT ik.key FROM image_keys ik
		WHERE ik.upload_at < $1
		  AND NOT ik.deleting
		  AND NOT EXISTS (SELECT 1 FROM post_images pi WHERE pi.image_key = ik.key)
		ORDER BY ik.upload_at, ik.key
		LIMIT $2
	`
	return r.selectKeys(ctx, "failed to select orphaned images", query, uploadedBefore, limit)
}

// Claim is a compare-and-set on the deleting flag, so concurrent runs
// split the candidates between them. Keys linked by a post in the meantime
// are skipped.
func (r *PostgresRepository) Claim(ctx context.Context, keys []string, at time.Time) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := `
		UPDATE image_keys ik SET deleting = true, deleting_at = $2
		WHERE ik.key = ANY($1)
		  AND NOT ik.deleting
		  AND NOT EXISTS (SELECT 1 FROM post_images pi WHERE pi.image_key = ik.key)
		RETURNING ik.key
	`
	return r.selectKeys(ctx, "failed to claim images", query, pq.Array(keys), at)
}

func (r *PostgresRepository) Release(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `UPDATE image_keys SET deleting = false, deleting_at = NULL WHERE key = ANY($1)`
	return r.exec(ctx, "failed to release images", query, pq.Array(keys))
}

// ReleaseStale gives back claims taken before the given time by runs that
// never finished.
func (r *PostgresRepository) ReleaseStale(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE image_keys SET deleting = false, deleting_at = NULL
		WHERE deleting AND (deleting_at IS NULL OR deleting_at < $1)
	`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to release stale claims: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to release stale claims: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteGeoData(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.exec(ctx, "failed to delete geo data", `DELETE FROM geo_data WHERE key = ANY($1)`, pq.Array(keys))
}

func (r *PostgresRepository) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.exec(ctx, "failed to delete image keys", `DELETE FROM image_keys WHERE key = ANY($1)`, pq.Array(keys))
}

func (r *PostgresRepository) exec(ctx context.Context, msg, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return nil
}

func (r *PostgresRepository) selectKeys(ctx context.Context, msg, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
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
