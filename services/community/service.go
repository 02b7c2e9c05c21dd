package community

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mothernatural-backend/pkg/db/pagination"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	posts repository.Repository[Post]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:    p.DB,
		posts: repository.ProvideStore[Post](p.DB),
	}
}

type CreatePostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

func (s *Service) Create(ctx context.Context, authorID, authorName string, req *CreatePostRequest) (*Post, error) {
	row := &Post{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Content:    strings.TrimSpace(req.Content),
		ImageURL:   req.ImageURL,
	}
	if err := s.posts.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create post", err)
	}
	return row, nil
}

// List returns the feed newest first, one cursor page at a time.
func (s *Service) List(ctx context.Context, page *pagination.Pagination) ([]Post, *pagination.PageInfo, error) {
	limit := page.ClampedLimit()

	q := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if page.Cursor != "" {
		cur, err := pagination.DecodeCursor(page.Cursor)
		if err != nil {
			return nil, nil, errutil.BadRequest("invalid cursor", err)
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cur.CreatedAt, cur.CreatedAt, cur.ID)
	}

	var rows []Post
	if err := q.Find(&rows).Error; err != nil {
		return nil, nil, errutil.Internal("failed to list posts", err)
	}

	rows, info, err := pagination.Page(rows, limit, func(p Post) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	if err != nil {
		return nil, nil, errutil.Internal("failed to build page cursor", err)
	}
	return rows, info, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	row, err := s.posts.FindOne(ctx, &Post{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load post", err)
	}
	if row == nil {
		return nil, errutil.NotFound("post not found", nil)
	}
	return row, nil
}

// Like bumps the post's like counter.
func (s *Service) Like(ctx context.Context, id string) (*Post, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&Post{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1")).Error
	if err != nil {
		return nil, errutil.Internal("failed to like post", err)
	}

	row.Likes++
	return row, nil
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Comment appends to the post's embedded comment list.
func (s *Service) Comment(ctx context.Context, id, authorName string, req *CommentRequest) (*Post, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var comments []Comment
	if len(row.Comments) > 0 {
		if err := json.Unmarshal(row.Comments, &comments); err != nil {
			return nil, errutil.Internal("failed to decode comments", err)
		}
	}

	comments = append(comments, Comment{
		ID:         uuid.NewString(),
		AuthorName: authorName,
		Content:    strings.TrimSpace(req.Content),
		CreatedAt:  time.Now(),
	})

	encoded, err := json.Marshal(comments)
	if err != nil {
		return nil, errutil.Internal("failed to encode comments", err)
	}

	row.Comments = encoded
	err = s.db.WithContext(ctx).Model(&Post{}).
		Where("id = ?", id).
		Update("comments", encoded).Error
	if err != nil {
		return nil, errutil.Internal("failed to save comment", err)
	}
	return row, nil
}

// Delete removes a post; only its author or an admin may do this,
// enforced by the caller.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return errutil.Internal("failed to delete post", err)
	}
	return nil
}
