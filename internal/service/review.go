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

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// CreateReviewRequest is a new review of a book.
type CreateReviewRequest struct {
	BookTitle string `json:"book_title,omitempty" validate:"max=500" doc:"Title shown alongside the review"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5" minimum:"1" maximum:"5" doc:"Stars from 1 to 5"`
	Comment   string `json:"comment" validate:"required,max=5000" maxLength:"5000" doc:"Review text"`
}

// ModerateRequest is an admin verdict on a pending review.
type ModerateRequest struct {
	Status domain.ReviewStatus `json:"status" validate:"required,review_verdict" enum:"approved,rejected" doc:"Verdict"`
}

// ReviewService manages book reviews and their moderation queue.
// New reviews are pending and visible only to their author until an admin
// approves them.
type ReviewService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(st *store.Store, v *validation.Validator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     st,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Create submits a review for moderation.
func (s *ReviewService) Create(ctx context.Context, userID, bookID string, req CreateReviewRequest) (*domain.Review, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.validator.Var("book_id", bookID, "required,max=200"); err != nil {
		return nil, err
	}

	author, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate review id")
	}

	now := s.now()
	review := &domain.Review{
		ID:         reviewID,
		BookID:     bookID,
		BookTitle:  req.BookTitle,
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Status:     domain.ReviewPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Reviews.Create(ctx, review.ID, review); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create review")
	}

	s.logger.Info("review submitted",
		"review_id", review.ID,
		"book_id", bookID,
		"user_id", userID,
		"rating", review.Rating)

	return review, nil
}

// ListForBook returns the book's approved reviews plus the viewer's own
// pending or rejected ones, newest first.
func (s *ReviewService) ListForBook(ctx context.Context, viewerID, bookID string) ([]*domain.Review, error) {
	reviews, err := s.store.Reviews.ListByIndex(ctx, "book", bookID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list book reviews")
	}
	reviews = slices.DeleteFunc(reviews, func(r *domain.Review) bool { return !r.VisibleTo(viewerID) })
	return newestFirst(reviews), nil
}

// ListMine returns all of the user's reviews regardless of status, newest first.
func (s *ReviewService) ListMine(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := s.store.Reviews.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list user reviews")
	}
	return newestFirst(reviews), nil
}

// Feed returns the most recent approved reviews across all books.
func (s *ReviewService) Feed(ctx context.Context, limit int) ([]*domain.Review, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	limit = min(limit, maxFeedLimit)

	reviews, err := s.store.Reviews.ListByIndex(ctx, "status", string(domain.ReviewApproved))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list approved reviews")
	}
	reviews = newestFirst(reviews)
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// Delete removes one of the caller's own reviews.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	review, err := s.get(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return domainerrors.Forbidden("you can only delete your own reviews")
	}

	if err := s.store.Reviews.Delete(ctx, reviewID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete review")
	}

	s.logger.Info("review deleted", "review_id", reviewID, "user_id", userID)
	return nil
}

// Pending returns the moderation queue, oldest first. Admin only.
func (s *ReviewService) Pending(ctx context.Context, adminID string) ([]*domain.Review, error) {
	if _, err := requireAdmin(ctx, s.store, adminID); err != nil {
		return nil, err
	}

	reviews, err := s.store.Reviews.ListByIndex(ctx, "status", string(domain.ReviewPending))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list pending reviews")
	}
	slices.SortStableFunc(reviews, func(a, b *domain.Review) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

// Moderate approves or rejects a pending review. Admin only.
func (s *ReviewService) Moderate(ctx context.Context, adminID, reviewID string, req ModerateRequest) (*domain.Review, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := requireAdmin(ctx, s.store, adminID); err != nil {
		return nil, err
	}

	review, err := s.get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != domain.ReviewPending {
		return nil, domainerrors.Conflictf("review %s is already %s", reviewID, review.Status)
	}

	review.Status = req.Status
	review.ModeratedBy = adminID
	review.UpdatedAt = s.now()

	if err := s.store.Reviews.Update(ctx, review.ID, review); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "moderate review")
	}

	s.logger.Info("review moderated",
		"review_id", reviewID,
		"status", review.Status,
		"moderator", adminID)

	return review, nil
}

func (s *ReviewService) get(ctx context.Context, reviewID string) (*domain.Review, error) {
	review, err := s.store.Reviews.Get(ctx, reviewID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("review %s not found", reviewID)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get review")
	}
	return review, nil
}

func newestFirst(reviews []*domain.Review) []*domain.Review {
	slices.SortStableFunc(reviews, func(a, b *domain.Review) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if reviews == nil {
		return []*domain.Review{}
	}
	return reviews
}
