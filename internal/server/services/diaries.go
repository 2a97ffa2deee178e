package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
)

type DiaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *DiaryService {
	return &DiaryService{db: db, repomanager: m, log: log.With("module", "diaries")}
}

// Create makes a diary and links its owner in one transaction.
func (s *DiaryService) Create(ctx context.Context, userID, name string) (*models.Diary, error) {
	var d *models.Diary
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Diaries(tx)

		var err error
		if d, err = repo.Create(ctx, name); err != nil {
			return err
		}
		return repo.AddUser(ctx, d.ID, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating diary: %w", err)
	}
	return d, nil
}

func (s *DiaryService) List(ctx context.Context, userID string) ([]*models.Diary, error) {
	return s.repomanager.Diaries(s.db).ListForUser(ctx, userID)
}

func (s *DiaryService) Get(ctx context.Context, diaryID string) (*models.Diary, error) {
	return s.repomanager.Diaries(s.db).Get(ctx, diaryID)
}

func (s *DiaryService) Rename(ctx context.Context, diaryID, name string) error {
	return s.repomanager.Diaries(s.db).Rename(ctx, diaryID, name)
}

func (s *DiaryService) VerifyAccess(ctx context.Context, userID, diaryID string) (bool, error) {
	return s.repomanager.Diaries(s.db).HasAccess(ctx, userID, diaryID)
}

// Delete removes the diary with its entries, editor states, posts and image
// metadata in a single transaction. Objects in storage are left for the
// cleanup job. Access must be checked by the caller. A missing diary is
// not an error.
func (s *DiaryService) Delete(ctx context.Context, diaryID string) error {
	const op = "delete_diary"

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return runCascade(ctx, diaryID, diaryCascade(s.repomanager, tx))
	})
	if err != nil {
		s.log.Error(ctx, "cascade delete failed", "op", op, "diary_id", diaryID, "error", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info(ctx, "diary deleted", "op", op, "diary_id", diaryID)
	return nil
}
