package service

import (
	"context"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// ProfileService assembles a reader's profile statistics from their goals,
// reviews and shelf.
type ProfileService struct {
	goals   *GoalsService
	reviews *ReviewService
	shelf   *ShelfService
}

// NewProfileService creates a new profile service.
func NewProfileService(goals *GoalsService, reviews *ReviewService, shelf *ShelfService) *ProfileService {
	return &ProfileService{goals: goals, reviews: reviews, shelf: shelf}
}

// Stats returns books and pages read this year, reviews written in any
// status, the current streak and shelf counts.
func (s *ProfileService) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	g, err := s.goals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	shelf, err := s.shelf.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UserStats{
		BooksRead:      g.YearlyBooksRead,
		PagesRead:      g.YearlyPagesRead,
		ReviewsWritten: len(reviews),
		CurrentStreak:  g.CurrentStreak,
		Shelf:          *shelf,
	}, nil
}
