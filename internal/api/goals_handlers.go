package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

func (s *Server) registerGoalsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "Get reading goals",
		Description: "Returns the reader's goals and streak, normalized to today",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGoals",
		Method:      http.MethodPut,
		Path:        "/api/v1/goals",
		Summary:     "Update reading targets",
		Description: "Sets daily page and yearly book targets; counters are kept",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetGoals",
		Method:      http.MethodDelete,
		Path:        "/api/v1/goals",
		Summary:     "Reset reading goals",
		Description: "Discards all counters and restores default targets",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResetGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "logReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals/reading",
		Summary:     "Log pages read",
		Description: "Adds pages read today and advances the streak",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals/books/complete",
		Summary:     "Count a finished book",
		Description: "Increments the yearly books read counter",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCompleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGoalProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/progress",
		Summary:     "Get goal progress",
		Description: "Returns daily and yearly completion percentages",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoalProgress)
}

// === DTOs ===

// GoalsOutput wraps a goals record for Huma.
type GoalsOutput struct {
	Body *domain.ReadingGoals
}

// GoalProgressOutput wraps derived progress for Huma.
type GoalProgressOutput struct {
	Body *domain.GoalProgress
}

// UpdateGoalsInput wraps the update targets request for Huma.
type UpdateGoalsInput struct {
	Authorization string `header:"Authorization"`
	Body          service.UpdateGoalsRequest
}

// LogReadingRequest is the request body for logging pages.
type LogReadingRequest struct {
	Pages int `json:"pages" minimum:"1" maximum:"10000" doc:"Pages read in this session"`
}

// LogReadingInput wraps the log reading request for Huma.
type LogReadingInput struct {
	Authorization string `header:"Authorization"`
	Body          LogReadingRequest
}

// === Handlers ===

func (s *Server) handleGetGoals(ctx context.Context, _ *AuthenticatedInput) (*GoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Goals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoalsOutput{Body: g}, nil
}

func (s *Server) handleUpdateGoals(ctx context.Context, input *UpdateGoalsInput) (*GoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Goals.UpdateGoals(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GoalsOutput{Body: g}, nil
}

func (s *Server) handleResetGoals(ctx context.Context, _ *AuthenticatedInput) (*GoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Goals.Reset(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoalsOutput{Body: g}, nil
}

func (s *Server) handleLogReading(ctx context.Context, input *LogReadingInput) (*GoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Goals.LogReading(ctx, userID, input.Body.Pages)
	if err != nil {
		return nil, err
	}
	return &GoalsOutput{Body: g}, nil
}

func (s *Server) handleCompleteBook(ctx context.Context, _ *AuthenticatedInput) (*GoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Goals.CompleteBook(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoalsOutput{Body: g}, nil
}

func (s *Server) handleGetGoalProgress(ctx context.Context, _ *AuthenticatedInput) (*GoalProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Goals.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoalProgressOutput{Body: p}, nil
}
