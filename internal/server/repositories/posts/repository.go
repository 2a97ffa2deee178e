package posts

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	LinkImages(ctx context.Context, postID string, keys []string) error
	ListByEntry(ctx context.Context, entryID string) ([]*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	HasAccess(ctx context.Context, userID, postID string) (bool, error)

	DeleteImageLinks(ctx context.Context, postID string) error
	Delete(ctx context.Context, postID string) error
	DeleteImageLinksByDiary(ctx context.Context, diaryID string) error
	DeleteImageLinksByEntry(ctx context.Context, entryID string) error
	DeleteByDiary(ctx context.Context, diaryID string) error
	DeleteByEntry(ctx context.Context, entryID string) error

	// LinkedKeys returns the subset of keys referenced by at least one post.
	LinkedKeys(ctx context.Context, keys []string) ([]string, error)
}
