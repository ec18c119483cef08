package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

func (s *Server) registerBlogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBlogPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/blog",
		Summary:     "List blog posts",
		Description: "Returns editorial posts, newest first",
		Tags:        []string{"Blog"},
	}, s.handleListBlogPosts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBlogPost",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/blog",
		Summary:       "Publish a blog post",
		Description:   "Publishes a post under the admin's name (admin only)",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBlogPost)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBlogPost",
		Method:        http.MethodDelete,
		Path:          "/api/v1/admin/blog/{id}",
		Summary:       "Delete a blog post",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBlogPost)
}

// BlogListResponse lists blog posts.
type BlogListResponse struct {
	Posts []*domain.BlogPost `json:"posts" doc:"Posts"`
}

// BlogListOutput wraps the post list for Huma.
type BlogListOutput struct {
	Body BlogListResponse
}

// CreateBlogPostInput wraps a new post for Huma.
type CreateBlogPostInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreatePostRequest
}

// BlogPostOutput wraps one post for Huma.
type BlogPostOutput struct {
	Body *domain.BlogPost
}

// BlogPostIDInput addresses a post.
type BlogPostIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
}

func (s *Server) handleListBlogPosts(ctx context.Context, _ *struct{}) (*BlogListOutput, error) {
	posts, err := s.services.Blog.List(ctx)
	if err != nil {
		return nil, err
	}
	return &BlogListOutput{Body: BlogListResponse{Posts: posts}}, nil
}

func (s *Server) handleCreateBlogPost(ctx context.Context, input *CreateBlogPostInput) (*BlogPostOutput, error) {
	adminID, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Blog.Create(ctx, adminID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BlogPostOutput{Body: post}, nil
}

func (s *Server) handleDeleteBlogPost(ctx context.Context, input *BlogPostIDInput) (*struct{}, error) {
	adminID, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Blog.Delete(ctx, adminID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
