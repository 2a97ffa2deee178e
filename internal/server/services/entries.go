package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
)

// emptyDocument is the editor state a new entry starts with.
var emptyDocument = []byte(`{}`)

type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *EntryService {
	return &EntryService{db: db, repomanager: m, log: log.With("module", "entries")}
}

// Create adds the entry for day together with an empty editor state.
// The day is truncated to a calendar date in UTC.
func (s *EntryService) Create(ctx context.Context, diaryID string, day time.Time) (*models.Entry, error) {
	y, m, d := day.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var e *models.Entry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if e, err = s.repomanager.Entries(tx).Create(ctx, diaryID, day); err != nil {
			return err
		}
		return s.repomanager.EditorStates(tx).Create(ctx, e.ID, emptyDocument)
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating entry: %w", err)
	}
	return e, nil
}

func (s *EntryService) List(ctx context.Context, diaryID string) ([]*models.Entry, error) {
	return s.repomanager.Entries(s.db).ListByDiary(ctx, diaryID)
}

// Get returns the entry and its editor state.
func (s *EntryService) Get(ctx context.Context, entryID string) (*models.Entry, *models.EditorState, error) {
	e, err := s.repomanager.Entries(s.db).Get(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	st, err := s.repomanager.EditorStates(s.db).Get(ctx, entryID)
	if errors.Is(err, common.ErrorNotFound) {
		st = &models.EditorState{EntryID: entryID, Data: emptyDocument}
	} else if err != nil {
		return nil, nil, err
	}
	return e, st, nil
}

// SaveEditorState stores data as the entry's document and bumps the
// entry's and diary's updated_at.
func (s *EntryService) SaveEditorState(ctx context.Context, entryID string, data []byte) error {
	if !json.Valid(data) {
		return common.ErrInvalidDocument
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.EditorStates(tx).Save(ctx, entryID, data); err != nil {
			return err
		}
		return s.repomanager.Entries(tx).Touch(ctx, entryID)
	})
	if err != nil {
		return fmt.Errorf("error saving editor state: %w", err)
	}
	return nil
}

func (s *EntryService) VerifyAccess(ctx context.Context, userID, entryID string) (bool, error) {
	return s.repomanager.Entries(s.db).HasAccess(ctx, userID, entryID)
}

// Delete removes the entry with its editor state, posts and image metadata
// in a single transaction. Deleting a missing entry succeeds.
func (s *EntryService) Delete(ctx context.Context, entryID string) error {
	const op = "delete_entry"

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return runCascade(ctx, entryID, entryCascade(s.repomanager, tx))
	})
	if err != nil {
		s.log.Error(ctx, "cascade delete failed", "op", op, "entry_id", entryID, "error", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info(ctx, "entry deleted", "op", op, "entry_id", entryID)
	return nil
}
