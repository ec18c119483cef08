package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/session",
		Summary:     "Start a session",
		Description: "Signs in with display name and password, registering the reader on first use, and returns an access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the reader behind the access token",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUserStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/stats",
		Summary:     "Get profile stats",
		Description: "Returns books and pages read this year, reviews written, streak and shelf counts",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUserStats)
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// LoginOutput wraps the session response for Huma.
type LoginOutput struct {
	Body *service.SessionResponse
}

// AuthenticatedInput carries only the bearer token.
type AuthenticatedInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body *domain.User
}

// UserStatsOutput wraps profile stats for Huma.
type UserStatsOutput struct {
	Body *domain.UserStats
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	resp, err := s.services.Session.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{Body: resp}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *AuthenticatedInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Session.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleGetCurrentUserStats(ctx context.Context, _ *AuthenticatedInput) (*UserStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Profile.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserStatsOutput{Body: stats}, nil
}
