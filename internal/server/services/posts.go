package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
)

// ImageURL is a linked image with a presigned download URL.
type ImageURL struct {
	Key string
	URL string
}

// PostView is a post as returned to clients.
type PostView struct {
	*models.Post
	Images []ImageURL
}

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   Presigner
	log         logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, p Presigner, log logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, presigner: p, log: log.With("module", "posts")}
}

// Create stores the post and links its images in order. Every key must be
// an uploaded image of the same entry, otherwise common.ErrInvalidImage.
func (s *PostService) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	keys := p.ImageKeys
	if len(keys) == 0 {
		return nil, common.ErrInvalidImage
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return nil, common.ErrInvalidImage
		}
		seen[k] = struct{}{}
	}

	var created *models.Post
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Images(tx).CountForEntry(ctx, p.EntryID, keys)
		if err != nil {
			return err
		}
		if n != len(keys) {
			return common.ErrInvalidImage
		}

		postRepo := s.repomanager.Posts(tx)
		if created, err = postRepo.Create(ctx, p); err != nil {
			return err
		}
		if err := postRepo.LinkImages(ctx, created.ID, keys); err != nil {
			return err
		}
		created.ImageKeys = append([]string(nil), keys...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return created, nil
}

// List returns the entry's posts with presigned image URLs.
func (s *PostService) List(ctx context.Context, entryID string) ([]*PostView, error) {
	posts, err := s.repomanager.Posts(s.db).ListByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		v, err := s.view(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Get returns one post with presigned image URLs.
func (s *PostService) Get(ctx context.Context, postID string) (*PostView, error) {
	p, err := s.repomanager.Posts(s.db).Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

func (s *PostService) view(ctx context.Context, p *models.Post) (*PostView, error) {
	v := &PostView{Post: p, Images: make([]ImageURL, 0, len(p.ImageKeys))}
	for _, k := range p.ImageKeys {
		url, err := s.presigner.PresignGet(ctx, k)
		if err != nil {
			return nil, err
		}
		v.Images = append(v.Images, ImageURL{Key: k, URL: url})
	}
	return v, nil
}

// Update changes title, description and order of an existing post.
func (s *PostService) Update(ctx context.Context, p *models.Post) error {
	return s.repomanager.Posts(s.db).Update(ctx, p)
}

func (s *PostService) VerifyAccess(ctx context.Context, userID, postID string) (bool, error) {
	return s.repomanager.Posts(s.db).HasAccess(ctx, userID, postID)
}

// Delete removes the post and its image links. The images stay and become
// candidates for the orphan cleanup.
func (s *PostService) Delete(ctx context.Context, postID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)
		if err := repo.DeleteImageLinks(ctx, postID); err != nil {
			return err
		}
		return repo.Delete(ctx, postID)
	})
	if err != nil {
		s.log.Error(ctx, "post delete failed", "post_id", postID, "error", err.Error())
		return fmt.Errorf("error deleting post: %w", err)
	}
	return nil
}
