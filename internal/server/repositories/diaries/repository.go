package diaries

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, name string) (*models.Diary, error)
	AddUser(ctx context.Context, diaryID, userID string) error
	ListForUser(ctx context.Context, userID string) ([]*models.Diary, error)
	Get(ctx context.Context, id string) (*models.Diary, error)
	Rename(ctx context.Context, id, name string) error
	HasAccess(ctx context.Context, userID, diaryID string) (bool, error)
	DeleteUsers(ctx context.Context, diaryID string) error
	Delete(ctx context.Context, id string) error
}
