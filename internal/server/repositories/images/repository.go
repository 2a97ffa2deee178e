package images

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, img *models.ImageKey) error
	SetGeoData(ctx context.Context, g *models.GeoData) error
	CountForEntry(ctx context.Context, entryID string, keys []string) (int, error)

	DeleteGeoDataByDiary(ctx context.Context, diaryID string) error
	DeleteGeoDataByEntry(ctx context.Context, entryID string) error
	DeleteByDiary(ctx context.Context, diaryID string) error
	DeleteByEntry(ctx context.Context, entryID string) error

	// SelectOrphans returns up to limit unclaimed keys uploaded before the
	// given time that no post links to, oldest first.
	SelectOrphans(ctx context.Context, uploadedBefore time.Time, limit int) ([]string, error)
	// Claim marks keys as being deleted and returns the ones this call won.
	Claim(ctx context.Context, keys []string, at time.Time) ([]string, error)
	Release(ctx context.Context, keys []string) error
	ReleaseStale(ctx context.Context, before time.Time) (int64, error)
	DeleteGeoData(ctx context.Context, keys []string) error
	Delete(ctx context.Context, keys []string) error
}
