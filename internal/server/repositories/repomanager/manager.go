package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/editorstates"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/images"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/pendingobjects"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Diaries(db dbx.DBTX) diaries.Repository
	Entries(db dbx.DBTX) entries.Repository
	EditorStates(db dbx.DBTX) editorstates.Repository
	Posts(db dbx.DBTX) posts.Repository
	Images(db dbx.DBTX) images.Repository
	PendingObjects(db dbx.DBTX) pendingobjects.Repository
}
