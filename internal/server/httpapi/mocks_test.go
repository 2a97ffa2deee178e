package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	args := m.Called(userName, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, userName, password string) (string, error) {
	args := m.Called(userName, password)
	return args.String(0), args.Error(1)
}

type MockDiaryService struct{ mock.Mock }

func (m *MockDiaryService) Create(ctx context.Context, userID, name string) (*models.Diary, error) {
	args := m.Called(userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diary), args.Error(1)
}

func (m *MockDiaryService) List(ctx context.Context, userID string) ([]*models.Diary, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Diary), args.Error(1)
}

func (m *MockDiaryService) Get(ctx context.Context, diaryID string) (*models.Diary, error) {
	args := m.Called(diaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diary), args.Error(1)
}

func (m *MockDiaryService) Rename(ctx context.Context, diaryID, name string) error {
	return m.Called(diaryID, name).Error(0)
}

func (m *MockDiaryService) VerifyAccess(ctx context.Context, userID, diaryID string) (bool, error) {
	args := m.Called(userID, diaryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiaryService) Delete(ctx context.Context, diaryID string) error {
	return m.Called(diaryID).Error(0)
}

type MockEntryService struct{ mock.Mock }

func (m *MockEntryService) Create(ctx context.Context, diaryID string, day time.Time) (*models.Entry, error) {
	args := m.Called(diaryID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryService) List(ctx context.Context, diaryID string) ([]*models.Entry, error) {
	args := m.Called(diaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Entry), args.Error(1)
}

func (m *MockEntryService) Get(ctx context.Context, entryID string) (*models.Entry, *models.EditorState, error) {
	args := m.Called(entryID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Entry), args.Get(1).(*models.EditorState), args.Error(2)
}

func (m *MockEntryService) SaveEditorState(ctx context.Context, entryID string, data []byte) error {
	return m.Called(entryID, data).Error(0)
}

func (m *MockEntryService) VerifyAccess(ctx context.Context, userID, entryID string) (bool, error) {
	args := m.Called(userID, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryService) Delete(ctx context.Context, entryID string) error {
	return m.Called(entryID).Error(0)
}

type MockPostService struct{ mock.Mock }

func (m *MockPostService) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) List(ctx context.Context, entryID string) ([]*services.PostView, error) {
	args := m.Called(entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.PostView), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, postID string) (*services.PostView, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PostView), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, p *models.Post) error {
	return m.Called(p).Error(0)
}

func (m *MockPostService) VerifyAccess(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, postID string) error {
	return m.Called(postID).Error(0)
}

type MockImageService struct{ mock.Mock }

func (m *MockImageService) RequestUpload(ctx context.Context, req services.UploadRequest) (*models.ImageUpload, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImageUpload), args.Error(1)
}

type fakeCounter struct {
	hits map[string]int64
	err  error
}

func (f *fakeCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.hits == nil {
		f.hits = map[string]int64{}
	}
	f.hits[key]++
	return f.hits[key], nil
}

var (
	_ UserService  = (*MockUserService)(nil)
	_ DiaryService = (*MockDiaryService)(nil)
	_ EntryService = (*MockEntryService)(nil)
	_ PostService  = (*MockPostService)(nil)
	_ ImageService = (*MockImageService)(nil)
)
