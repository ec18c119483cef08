package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

func (s *Server) registerConciergeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "conciergeChat",
		Method:      http.MethodPost,
		Path:        "/api/v1/concierge/chat",
		Summary:     "Ask the book concierge",
		Description: "Answers a reader's message with text, follow-up suggestions and books",
		Tags:        []string{"Concierge"},
	}, s.handleConciergeChat)

	huma.Register(s.api, huma.Operation{
		OperationID: "conciergeSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/concierge/suggestions",
		Summary:     "Mood suggestions",
		Description: "Returns follow-up search ideas for a mood in the query",
		Tags:        []string{"Concierge"},
	}, s.handleConciergeSuggestions)
}

// ConciergeChatInput wraps a chat message for Huma.
type ConciergeChatInput struct {
	Body service.ChatRequest
}

// ConciergeChatOutput wraps the concierge reply for Huma.
type ConciergeChatOutput struct {
	Body domain.ConciergeReply
}

// SuggestionsInput contains the query to derive suggestions from.
type SuggestionsInput struct {
	Query string `query:"q" maxLength:"200" doc:"Reader's query"`
}

// SuggestionsResponse lists suggested queries.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions" doc:"Suggested queries"`
}

// SuggestionsOutput wraps suggestions for Huma.
type SuggestionsOutput struct {
	Body SuggestionsResponse
}

func (s *Server) handleConciergeChat(ctx context.Context, input *ConciergeChatInput) (*ConciergeChatOutput, error) {
	return &ConciergeChatOutput{Body: s.services.Concierge.Respond(ctx, input.Body)}, nil
}

func (s *Server) handleConciergeSuggestions(_ context.Context, input *SuggestionsInput) (*SuggestionsOutput, error) {
	return &SuggestionsOutput{
		Body: SuggestionsResponse{Suggestions: s.services.Concierge.Suggestions(input.Query)},
	}, nil
}
