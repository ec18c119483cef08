package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/id"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

// CreatePostRequest is a new blog post.
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,max=200" maxLength:"200" doc:"Post title"`
	Content  string `json:"content" validate:"required,max=20000" maxLength:"20000" doc:"Post body"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url,max=2000" doc:"Optional header image"`
}

// BlogService manages editorial posts. Anyone can read; admins write.
type BlogService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewBlogService creates a new blog service.
func NewBlogService(st *store.Store, v *validation.Validator, logger *slog.Logger) *BlogService {
	return &BlogService{
		store:     st,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all posts, newest first.
func (s *BlogService) List(ctx context.Context) ([]*domain.BlogPost, error) {
	posts, err := s.store.Blog.List(ctx, "")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list posts")
	}
	slices.SortStableFunc(posts, func(a, b *domain.BlogPost) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if posts == nil {
		posts = []*domain.BlogPost{}
	}
	return posts, nil
}

// Create publishes a post under the admin's name.
func (s *BlogService) Create(ctx context.Context, adminID string, req CreatePostRequest) (*domain.BlogPost, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	admin, err := requireAdmin(ctx, s.store, adminID)
	if err != nil {
		return nil, err
	}

	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate post id")
	}

	post := &domain.BlogPost{
		ID:        postID,
		Title:     req.Title,
		Content:   req.Content,
		Author:    admin.Name,
		AuthorID:  admin.ID,
		ImageURL:  req.ImageURL,
		CreatedAt: s.now(),
	}
	if err := s.store.Blog.Create(ctx, post.ID, post); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create post")
	}

	s.logger.Info("blog post published", "post_id", post.ID, "author_id", admin.ID)
	return post, nil
}

// Delete removes a post. Admin only.
func (s *BlogService) Delete(ctx context.Context, adminID, postID string) error {
	if _, err := requireAdmin(ctx, s.store, adminID); err != nil {
		return err
	}

	if _, err := s.store.Blog.Get(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("post %s not found", postID)
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "get post")
	}

	if err := s.store.Blog.Delete(ctx, postID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete post")
	}

	s.logger.Info("blog post deleted", "post_id", postID, "admin_id", adminID)
	return nil
}
