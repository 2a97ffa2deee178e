package editorstates

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entryID string, data []byte) error
	Get(ctx context.Context, entryID string) (*models.EditorState, error)
	Save(ctx context.Context, entryID string, data []byte) error
	DeleteByDiary(ctx context.Context, diaryID string) error
	DeleteByEntry(ctx context.Context, entryID string) error
}
