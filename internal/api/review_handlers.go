package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{bookID}/reviews",
		Summary:     "List reviews for a book",
		Description: "Returns approved reviews, plus the caller's own pending ones when signed in",
		Tags:        []string{"Reviews"},
	}, s.handleListBookReviews)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{bookID}/reviews",
		Summary:       "Review a book",
		Description:   "Submits a review; it is visible to others once a moderator approves it",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/mine",
		Summary:     "List my reviews",
		Description: "Returns all of the caller's reviews with their moderation status",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReviewFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/feed",
		Summary:     "Community review feed",
		Description: "Returns the most recent approved reviews across all books",
		Tags:        []string{"Reviews"},
	}, s.handleReviewFeed)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteReview",
		Method:        http.MethodDelete,
		Path:          "/api/v1/reviews/{id}",
		Summary:       "Delete my review",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPendingReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/reviews/pending",
		Summary:     "Moderation queue",
		Description: "Returns pending reviews, oldest first (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPendingReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "moderateReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/reviews/{id}/moderate",
		Summary:     "Moderate a review",
		Description: "Approves or rejects a pending review (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleModerateReview)
}

// === DTOs ===

// BookReviewsInput addresses a book's reviews.
type BookReviewsInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" maxLength:"200" doc:"Book ID"`
}

// CreateReviewInput wraps a new review for Huma.
type CreateReviewInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" maxLength:"200" doc:"Book ID"`
	Body          service.CreateReviewRequest
}

// ReviewOutput wraps one review for Huma.
type ReviewOutput struct {
	Body *domain.Review
}

// ReviewListResponse lists reviews.
type ReviewListResponse struct {
	Reviews []*domain.Review `json:"reviews" doc:"Reviews"`
}

// ReviewListOutput wraps a review list for Huma.
type ReviewListOutput struct {
	Body ReviewListResponse
}

// ReviewFeedInput pages the community feed.
type ReviewFeedInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100" default:"20" doc:"Maximum number of reviews"`
}

// ReviewIDInput addresses a review.
type ReviewIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
}

// ModerateReviewInput wraps a moderation verdict for Huma.
type ModerateReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
	Body          service.ModerateRequest
}

// === Handlers ===

func (s *Server) handleListBookReviews(ctx context.Context, input *BookReviewsInput) (*ReviewListOutput, error) {
	reviews, err := s.services.Reviews.ListForBook(ctx, optionalUserID(ctx), input.BookID)
	if err != nil {
		return nil, err
	}
	return &ReviewListOutput{Body: ReviewListResponse{Reviews: reviews}}, nil
}

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.Create(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleListMyReviews(ctx context.Context, _ *AuthenticatedInput) (*ReviewListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.services.Reviews.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ReviewListOutput{Body: ReviewListResponse{Reviews: reviews}}, nil
}

func (s *Server) handleReviewFeed(ctx context.Context, input *ReviewFeedInput) (*ReviewListOutput, error) {
	reviews, err := s.services.Reviews.Feed(ctx, min(input.Limit, MaxFeedLimit))
	if err != nil {
		return nil, err
	}
	return &ReviewListOutput{Body: ReviewListResponse{Reviews: reviews}}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *ReviewIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Reviews.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleListPendingReviews(ctx context.Context, _ *AuthenticatedInput) (*ReviewListOutput, error) {
	adminID, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.services.Reviews.Pending(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return &ReviewListOutput{Body: ReviewListResponse{Reviews: reviews}}, nil
}

func (s *Server) handleModerateReview(ctx context.Context, input *ModerateReviewInput) (*ReviewOutput, error) {
	adminID, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.Moderate(ctx, adminID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: review}, nil
}
