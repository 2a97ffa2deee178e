package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MaxImageSize is the largest upload accepted.
const MaxImageSize = 20 << 20

// UploadRequest describes an image the client is about to upload.
type UploadRequest struct {
	UserID   string
	EntryID  string
	Name     string
	Mimetype string
	Size     int64
	Geo      *models.GeoData
}

type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   Presigner
	log         logging.Logger
	now         func() time.Time
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, p Presigner, log logging.Logger) *ImageService {
	return &ImageService{
		db:          db,
		repomanager: m,
		presigner:   p,
		log:         log.With("module", "images"),
		now:         time.Now,
	}
}

// StorageKey builds "<user>/<diary>/<entry>/<uuid><ext>" with the
// lower-cased extension of name.
func StorageKey(userID, diaryID, entryID, name string) string {
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("%s/%s/%s/%s%s", userID, diaryID, entryID, uuid.NewString(), ext)
}

// RequestUpload records the image key and returns a presigned PUT URL.
// The row is written first; if the client never uploads, the cleanup job
// reclaims the key once the grace period is over.
func (s *ImageService) RequestUpload(ctx context.Context, req UploadRequest) (*models.ImageUpload, error) {
	if !strings.HasPrefix(req.Mimetype, "image/") {
		return nil, common.ErrInvalidMimetype
	}
	if req.Size <= 0 {
		return nil, common.ErrInvalidImage
	}
	if req.Size > MaxImageSize {
		return nil, common.ErrFileTooLarge
	}

	entry, err := s.repomanager.Entries(s.db).Get(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}

	img := &models.ImageKey{
		Key:      StorageKey(req.UserID, entry.DiaryID, entry.ID, req.Name),
		EntryID:  entry.ID,
		UploadAt: s.now().UTC(),
		Name:     req.Name,
		Mimetype: req.Mimetype,
		Size:     req.Size,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Images(tx)
		if err := repo.Create(ctx, img); err != nil {
			return err
		}
		if req.Geo != nil {
			return repo.SetGeoData(ctx, &models.GeoData{Key: img.Key, Lon: req.Geo.Lon, Lat: req.Geo.Lat})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error recording image: %w", err)
	}

	url, err := s.presigner.PresignPut(ctx, img.Key, img.Mimetype)
	if err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "upload url issued", "key", img.Key, "size", img.Size)
	return &models.ImageUpload{Key: img.Key, URL: url}, nil
}
