package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (string, error)
}

type DiaryService interface {
	Create(ctx context.Context, userID, name string) (*models.Diary, error)
	List(ctx context.Context, userID string) ([]*models.Diary, error)
	Get(ctx context.Context, diaryID string) (*models.Diary, error)
	Rename(ctx context.Context, diaryID, name string) error
	VerifyAccess(ctx context.Context, userID, diaryID string) (bool, error)
	Delete(ctx context.Context, diaryID string) error
}

type EntryService interface {
	Create(ctx context.Context, diaryID string, day time.Time) (*models.Entry, error)
	List(ctx context.Context, diaryID string) ([]*models.Entry, error)
	Get(ctx context.Context, entryID string) (*models.Entry, *models.EditorState, error)
	SaveEditorState(ctx context.Context, entryID string, data []byte) error
	VerifyAccess(ctx context.Context, userID, entryID string) (bool, error)
	Delete(ctx context.Context, entryID string) error
}

type PostService interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	List(ctx context.Context, entryID string) ([]*services.PostView, error)
	Get(ctx context.Context, postID string) (*services.PostView, error)
	Update(ctx context.Context, p *models.Post) error
	VerifyAccess(ctx context.Context, userID, postID string) (bool, error)
	Delete(ctx context.Context, postID string) error
}

type ImageService interface {
	RequestUpload(ctx context.Context, req services.UploadRequest) (*models.ImageUpload, error)
}
