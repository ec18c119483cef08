package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/goals"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

// GoalsOptions configures a GoalsService. Zero values take defaults.
type GoalsOptions struct {
	// Location decides where calendar days begin. Defaults to time.Local.
	Location     *time.Location
	PagesPerDay  int
	BooksPerYear int
}

// UpdateGoalsRequest carries new reading targets.
type UpdateGoalsRequest struct {
	PagesPerDay  int `json:"target_pages_per_day" validate:"gt=0,lte=10000"`
	BooksPerYear int `json:"target_books_per_year" validate:"gt=0,lte=1000"`
}

// GoalsService owns each user's reading goals record.
//
// Every mutation loads the record (defaults if absent), applies the goals
// engine and persists the result. Mutations for one user run one at a time.
type GoalsService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
	loc       *time.Location
	defaults  domain.ReadingGoals
	locks     *keyedMutex
	now       func() time.Time
}

// NewGoalsService creates a new goals service.
func NewGoalsService(st *store.Store, v *validation.Validator, opts GoalsOptions, logger *slog.Logger) *GoalsService {
	defaults := domain.DefaultReadingGoals()
	if opts.PagesPerDay > 0 {
		defaults.TargetPagesPerDay = opts.PagesPerDay
	}
	if opts.BooksPerYear > 0 {
		defaults.TargetBooksPerYear = opts.BooksPerYear
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &GoalsService{
		store:     st,
		validator: v,
		logger:    logger,
		loc:       loc,
		defaults:  defaults,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// Get returns the user's goals as of now. Day rollover is applied to the
// returned copy only; nothing is written.
func (s *GoalsService) Get(ctx context.Context, userID string) (*domain.ReadingGoals, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	normalized := goals.Normalize(state, s.clock())
	return &normalized, nil
}

// GetProgress returns the user's progress toward today's and this year's targets.
func (s *GoalsService) GetProgress(ctx context.Context, userID string) (*domain.GoalProgress, error) {
	state, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress := goals.Progress(*state)
	return &progress, nil
}

// logReadingRule bounds a single LogReading call.
var logReadingRule = "gt=0,lte=" + strconv.Itoa(domain.MaxPagesPerLog)

// LogReading records pages read now.
func (s *GoalsService) LogReading(ctx context.Context, userID string, pages int) (*domain.ReadingGoals, error) {
	if err := s.validator.Var("pages", pages, logReadingRule); err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, goals.LogReading{Pages: pages})
}

// CompleteBook counts one finished book toward the yearly target.
func (s *GoalsService) CompleteBook(ctx context.Context, userID string) (*domain.ReadingGoals, error) {
	return s.apply(ctx, userID, goals.CompleteBook{})
}

// UpdateGoals replaces the user's targets. Counters are untouched.
func (s *GoalsService) UpdateGoals(ctx context.Context, userID string, req UpdateGoalsRequest) (*domain.ReadingGoals, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, goals.UpdateTargets{PagesPerDay: req.PagesPerDay, BooksPerYear: req.BooksPerYear})
}

// Reset clears the user's record. The next read yields defaults.
func (s *GoalsService) Reset(ctx context.Context, userID string) (*domain.ReadingGoals, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.store.Goals.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to reset reading goals", "user_id", userID, "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "reset reading goals")
	}

	s.logger.Info("reading goals reset", "user_id", userID)

	fresh := goals.Reduce(domain.ReadingGoals{}, goals.Reset{Defaults: s.defaults}, s.clock())
	return &fresh, nil
}

func (s *GoalsService) apply(ctx context.Context, userID string, action goals.Action) (*domain.ReadingGoals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := goals.Reduce(state, action, s.clock())

	if err := s.store.Goals.Put(ctx, userID, &next); err != nil {
		s.logger.Error("failed to save reading goals", "user_id", userID, "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "save reading goals")
	}

	s.logger.Debug("reading goals updated",
		"user_id", userID,
		"action", actionName(action),
		"today_pages", next.TodayPagesRead,
		"current_streak", next.CurrentStreak)

	return &next, nil
}

func (s *GoalsService) load(ctx context.Context, userID string) (domain.ReadingGoals, error) {
	state, err := s.store.Goals.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.ReadingGoals{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "load reading goals")
	}
	return *state, nil
}

// clock returns now in the configured location.
func (s *GoalsService) clock() time.Time {
	return s.now().In(s.loc)
}

func actionName(a goals.Action) string {
	switch a.(type) {
	case goals.LogReading:
		return "log_reading"
	case goals.CompleteBook:
		return "complete_book"
	case goals.UpdateTargets:
		return "update_targets"
	case goals.Reset:
		return "reset"
	default:
		return "unknown"
	}
}
