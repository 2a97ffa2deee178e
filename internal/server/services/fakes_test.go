package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/editorstates"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/images"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository
	byName    map[string]*models.User
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrAlreadyExists
	}
	c := *u
	c.ID = "u-" + u.UserName
	f.byName[u.UserName] = &c
	return &c, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeDiariesRepo struct {
	diaries.Repository
	created   []string
	links     [][2]string
	addErr    error
	hasAccess bool
}

func (f *fakeDiariesRepo) Create(ctx context.Context, name string) (*models.Diary, error) {
	f.created = append(f.created, name)
	return &models.Diary{ID: "d1", Name: name}, nil
}

func (f *fakeDiariesRepo) AddUser(ctx context.Context, diaryID, userID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.links = append(f.links, [2]string{diaryID, userID})
	return nil
}

func (f *fakeDiariesRepo) HasAccess(ctx context.Context, userID, diaryID string) (bool, error) {
	return f.hasAccess, nil
}

type fakeEntriesRepo struct {
	entries.Repository
	entry     *models.Entry
	createErr error
	created   []time.Time
	touched   []string
}

func (f *fakeEntriesRepo) Create(ctx context.Context, diaryID string, day time.Time) (*models.Entry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, day)
	return &models.Entry{ID: "e1", DiaryID: diaryID, Day: day}, nil
}

func (f *fakeEntriesRepo) Get(ctx context.Context, id string) (*models.Entry, error) {
	if f.entry == nil || f.entry.ID != id {
		return nil, common.ErrorNotFound
	}
	return f.entry, nil
}

func (f *fakeEntriesRepo) Touch(ctx context.Context, id string) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeEditorStatesRepo struct {
	editorstates.Repository
	states  map[string][]byte
	saveErr error
}

func (f *fakeEditorStatesRepo) Create(ctx context.Context, entryID string, data []byte) error {
	f.states[entryID] = data
	return nil
}

func (f *fakeEditorStatesRepo) Get(ctx context.Context, entryID string) (*models.EditorState, error) {
	d, ok := f.states[entryID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.EditorState{EntryID: entryID, Data: d}, nil
}

func (f *fakeEditorStatesRepo) Save(ctx context.Context, entryID string, data []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.states[entryID] = data
	return nil
}

type fakePostsRepo struct {
	posts.Repository
	list      []*models.Post
	created   []*models.Post
	linked    map[string][]string
	deleted   []string
	deleteErr error
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	c := *p
	c.ID = "p1"
	c.ImageKeys = nil
	f.created = append(f.created, &c)
	return &c, nil
}

func (f *fakePostsRepo) LinkImages(ctx context.Context, postID string, keys []string) error {
	f.linked[postID] = keys
	return nil
}

func (f *fakePostsRepo) Get(ctx context.Context, id string) (*models.Post, error) {
	for _, p := range f.list {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePostsRepo) ListByEntry(ctx context.Context, entryID string) ([]*models.Post, error) {
	return f.list, nil
}

func (f *fakePostsRepo) DeleteImageLinks(ctx context.Context, postID string) error {
	delete(f.linked, postID)
	return nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, postID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, postID)
	return nil
}

type fakeImagesRepo struct {
	images.Repository
	owned     map[string]string // key -> entry
	created   []*models.ImageKey
	geo       []*models.GeoData
	createErr error
}

func (f *fakeImagesRepo) Create(ctx context.Context, img *models.ImageKey) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, img)
	return nil
}

func (f *fakeImagesRepo) SetGeoData(ctx context.Context, g *models.GeoData) error {
	f.geo = append(f.geo, g)
	return nil
}

func (f *fakeImagesRepo) CountForEntry(ctx context.Context, entryID string, keys []string) (int, error) {
	n := 0
	for _, k := range keys {
		if f.owned[k] == entryID {
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u  *fakeUsersRepo
	d  *fakeDiariesRepo
	e  *fakeEntriesRepo
	es *fakeEditorStatesRepo
	p  *fakePostsRepo
	i  *fakeImagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  &fakeUsersRepo{byName: map[string]*models.User{}},
		d:  &fakeDiariesRepo{},
		e:  &fakeEntriesRepo{},
		es: &fakeEditorStatesRepo{states: map[string][]byte{}},
		p:  &fakePostsRepo{linked: map[string][]string{}},
		i:  &fakeImagesRepo{owned: map[string]string{}},
	}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Diaries(db dbx.DBTX) diaries.Repository           { return m.d }
func (m *fakeRepoManager) Entries(db dbx.DBTX) entries.Repository           { return m.e }
func (m *fakeRepoManager) EditorStates(db dbx.DBTX) editorstates.Repository { return m.es }
func (m *fakeRepoManager) Posts(db dbx.DBTX) posts.Repository               { return m.p }
func (m *fakeRepoManager) Images(db dbx.DBTX) images.Repository             { return m.i }

type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://put/" + key, nil
}

func (f *fakePresigner) PresignGet(ctx context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://get/" + key, nil
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func nopLogger() logging.Logger { return logging.NewNopLogger() }
