package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, diaryID string, day time.Time) (*models.Entry, error)
	ListByDiary(ctx context.Context, diaryID string) ([]*models.Entry, error)
	Get(ctx context.Context, id string) (*models.Entry, error)
	Touch(ctx context.Context, id string) error
	HasAccess(ctx context.Context, userID, entryID string) (bool, error)
	DeleteByDiary(ctx context.Context, diaryID string) error
	Delete(ctx context.Context, id string) error
}
