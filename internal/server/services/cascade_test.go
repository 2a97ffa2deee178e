package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cascadeStmt struct {
	step  string
	query string
}

var diaryCascadeSQL = []cascadeStmt{
	{"editor states", `(?s)DELETE\s+FROM\s+editor_states\s+WHERE\s+entry_id\s+IN\s+\(SELECT\s+id\s+FROM\s+entries\s+WHERE\s+diary_id`},
	{"post images", `(?s)DELETE\s+FROM\s+post_images.*JOIN\s+entries`},
	{"posts", `(?s)DELETE\s+FROM\s+posts\s+WHERE\s+entry_id\s+IN`},
	{"enqueue objects", `(?s)INSERT\s+INTO\s+storage_cleanup.*diary_id\s*=\s*\$1`},
	{"geo data", `(?s)DELETE\s+FROM\s+geo_data.*diary_id\s*=\s*\$1`},
	{"image keys", `(?s)DELETE\s+FROM\s+image_keys\s+WHERE\s+entry_id\s+IN`},
	{"entries", `DELETE\s+FROM\s+entries\s+WHERE\s+diary_id\s*=\s*\$1`},
	{"diary users", `DELETE\s+FROM\s+diary_users\s+WHERE\s+diary_id\s*=\s*\$1`},
	{"diary", `DELETE\s+FROM\s+diaries\s+WHERE\s+id\s*=\s*\$1`},
}

var entryCascadeSQL = []cascadeStmt{
	{"editor state", `DELETE\s+FROM\s+editor_states\s+WHERE\s+entry_id\s*=\s*\$1`},
	{"post images", `(?s)DELETE\s+FROM\s+post_images\s+WHERE\s+post_id\s+IN\s+\(SELECT\s+id\s+FROM\s+posts\s+WHERE\s+entry_id`},
	{"posts", `DELETE\s+FROM\s+posts\s+WHERE\s+entry_id\s*=\s*\$1`},
	{"enqueue objects", `(?s)INSERT\s+INTO\s+storage_cleanup.*FROM\s+image_keys\s+WHERE\s+entry_id\s*=\s*\$1`},
	{"geo data", `(?s)DELETE\s+FROM\s+geo_data.*FROM\s+image_keys\s+WHERE\s+entry_id\s*=\s*\$1`},
	{"image keys", `DELETE\s+FROM\s+image_keys\s+WHERE\s+entry_id\s*=\s*\$1`},
	{"entry", `DELETE\s+FROM\s+entries\s+WHERE\s+id\s*=\s*\$1`},
}

// expectCascade registers the statements in order. When failAt is a valid
// index that statement fails with errBoom and a rollback is expected instead
// of a commit.
func expectCascade(mock sqlmock.Sqlmock, stmts []cascadeStmt, id string, failAt int, rows int64) {
	mock.ExpectBegin()
	for i, st := range stmts {
		e := mock.ExpectExec(st.query).WithArgs(id)
		if i == failAt {
			e.WillReturnError(errBoom{})
			mock.ExpectRollback()
			return
		}
		e.WillReturnResult(sqlmock.NewResult(0, rows))
	}
	mock.ExpectCommit()
}

func newJSONLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewJSONLogger(&buf, slog.LevelDebug), &buf
}

func TestDiaryDelete_RemovesEverythingInOrder(t *testing.T) {
	db, mock := newSQLMockDB(t)
	log, buf := newJSONLogger()
	svc := NewDiaryService(db, repomanager.NewPostgresRepositoryManager(), log)

	expectCascade(mock, diaryCascadeSQL, "d1", -1, 2)

	require.NoError(t, svc.Delete(context.Background(), "d1"))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), `"op":"delete_diary"`)
}

func TestDiaryDelete_RollsBackAtEveryStep(t *testing.T) {
	for i, st := range diaryCascadeSQL {
		t.Run(st.step, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			log, buf := newJSONLogger()
			svc := NewDiaryService(db, repomanager.NewPostgresRepositoryManager(), log)

			expectCascade(mock, diaryCascadeSQL, "d1", i, 1)

			err := svc.Delete(context.Background(), "d1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errBoom{}))
			assert.Contains(t, err.Error(), fmt.Sprintf("delete_diary: %s:", st.step))
			require.NoError(t, mock.ExpectationsWereMet())

			assert.Contains(t, buf.String(), `"level":"ERROR"`)
			assert.Contains(t, buf.String(), `"op":"delete_diary"`)
			assert.Contains(t, buf.String(), "boom")
		})
	}
}

func TestDiaryDelete_BeginError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	svc := NewDiaryService(db, repomanager.NewPostgresRepositoryManager(), nopLogger())

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err := svc.Delete(context.Background(), "d1")
	require.ErrorContains(t, err, "begin tx: no conn")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryDelete_RemovesEverythingInOrder(t *testing.T) {
	db, mock := newSQLMockDB(t)
	svc := NewEntryService(db, repomanager.NewPostgresRepositoryManager(), nopLogger())

	expectCascade(mock, entryCascadeSQL, "e1", -1, 1)

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryDelete_RollsBackAtEveryStep(t *testing.T) {
	for i, st := range entryCascadeSQL {
		t.Run(st.step, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			log, buf := newJSONLogger()
			svc := NewEntryService(db, repomanager.NewPostgresRepositoryManager(), log)

			expectCascade(mock, entryCascadeSQL, "e1", i, 1)

			err := svc.Delete(context.Background(), "e1")
			require.ErrorIs(t, err, errBoom{})
			assert.Contains(t, err.Error(), fmt.Sprintf("delete_entry: %s:", st.step))
			require.NoError(t, mock.ExpectationsWereMet())
			assert.Contains(t, buf.String(), `"op":"delete_entry"`)
		})
	}
}

func TestEntryDelete_IsIdempotent(t *testing.T) {
	db, mock := newSQLMockDB(t)
	svc := NewEntryService(db, repomanager.NewPostgresRepositoryManager(), nopLogger())

	// The second run finds nothing left to delete.
	expectCascade(mock, entryCascadeSQL, "e1", -1, 1)
	expectCascade(mock, entryCascadeSQL, "e1", -1, 0)

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	require.NoError(t, svc.Delete(context.Background(), "e1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiaryDelete_MissingDiaryIsNoop(t *testing.T) {
	db, mock := newSQLMockDB(t)
	svc := NewDiaryService(db, repomanager.NewPostgresRepositoryManager(), nopLogger())

	expectCascade(mock, diaryCascadeSQL, "missing", -1, 0)

	require.NoError(t, svc.Delete(context.Background(), "missing"))
	require.NoError(t, mock.ExpectationsWereMet())
}
