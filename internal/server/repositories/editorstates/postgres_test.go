package editorstates

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+editor_states\s*\(entry_id,\s*data\)`).
		WithArgs("e1", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), "e1", []byte(`{}`)))

	mock.ExpectExec(`INSERT\s+INTO\s+editor_states`).
		WithArgs("e1", []byte(`{}`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, repo.Create(context.Background(), "e1", []byte(`{}`)), common.ErrAlreadyExists)
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+entry_id,\s*data\s+FROM\s+editor_states\s+WHERE\s+entry_id\s*=\s*\$1`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"entry_id", "data"}).AddRow("e1", []byte(`{"root":[]}`)))

	s, err := repo.Get(context.Background(), "e1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":[]}`, string(s.Data))
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+editor_states`).WithArgs("e1").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "e1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_Upserts(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+editor_states.*ON\s+CONFLICT\s+\(entry_id\)\s+DO\s+UPDATE\s+SET\s+data\s*=\s*EXCLUDED\.data`).
		WithArgs("e1", []byte(`{"a":1}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), "e1", []byte(`{"a":1}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByDiary_ScopesThroughEntries(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+editor_states\s+WHERE\s+entry_id\s+IN\s+\(SELECT\s+id\s+FROM\s+entries\s+WHERE\s+diary_id\s*=\s*\$1\)`).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByDiary(context.Background(), "d1"))
}

func TestDeleteByEntry(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+editor_states\s+WHERE\s+entry_id\s*=\s*\$1`).
		WithArgs("e1").
		WillReturnError(errors.New("boom"))

	require.ErrorContains(t, repo.DeleteByEntry(context.Background(), "e1"), "failed to delete editor state: boom")
}
