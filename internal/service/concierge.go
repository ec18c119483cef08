package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

const (
	conciergeBookLimit = 4
	maxChatHistory     = 20
)

// Chatter holds a free-form conversation about books.
type Chatter interface {
	Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error)
}

// ConciergeCatalog is the catalog surface the rule-based concierge draws on.
type ConciergeCatalog interface {
	Search(ctx context.Context, query string) ([]domain.Book, error)
	Subject(ctx context.Context, subject string, limit int) ([]domain.Book, error)
	Curated(ctx context.Context) ([]domain.Book, error)
	Trends(ctx context.Context) ([]domain.Book, error)
}

// ConciergeOptions configures the concierge.
type ConciergeOptions struct {
	// UseAI routes chat through the Chatter when one is configured.
	UseAI      bool
	AISource   domain.Source
	RuleSource domain.Source
}

// ChatRequest is one user message plus the prior conversation.
type ChatRequest struct {
	Message string               `json:"message" validate:"required,max=2000" minLength:"1" maxLength:"2000"`
	History []domain.ChatMessage `json:"history,omitempty"`
}

// ConciergeService answers reader questions with book suggestions.
// It prefers the AI chatter and falls back to keyword rules backed by the
// public catalog. It never returns an error to the caller.
type ConciergeService struct {
	chatter Chatter
	catalog ConciergeCatalog
	opts    ConciergeOptions
	logger  *slog.Logger
}

// NewConciergeService creates a concierge. chatter may be nil.
func NewConciergeService(chatter Chatter, catalog ConciergeCatalog, opts ConciergeOptions, logger *slog.Logger) *ConciergeService {
	return &ConciergeService{
		chatter: chatter,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
}

var (
	greetingPattern = regexp.MustCompile(`^(hi|hello|hey|greetings)`)

	genrePatterns = []struct {
		pattern *regexp.Regexp
		subject string
	}{
		{regexp.MustCompile(`fantasy`), "fantasy"},
		{regexp.MustCompile(`romance`), "romance"},
		{regexp.MustCompile(`mystery`), "mystery"},
		{regexp.MustCompile(`thriller`), "thriller"},
		{regexp.MustCompile(`sci-fi|science fiction`), "science_fiction"},
		{regexp.MustCompile(`horror|scary`), "horror"},
		{regexp.MustCompile(`historical`), "historical_fiction"},
		{regexp.MustCompile(`biography`), "biography"},
	}
)

// Respond answers a chat message.
func (s *ConciergeService) Respond(ctx context.Context, req ChatRequest) domain.ConciergeReply {
	if s.opts.UseAI && s.chatter != nil {
		history := req.History
		if len(history) > maxChatHistory {
			history = history[len(history)-maxChatHistory:]
		}
		text, err := s.chatter.Chat(ctx, history, req.Message)
		if err == nil {
			return domain.ConciergeReply{Text: text, Source: s.opts.AISource}
		}
		s.logger.Warn("AI concierge failed, using rules", "error", err)
	}

	reply := s.rules(ctx, req.Message)
	reply.Source = s.opts.RuleSource
	return reply
}

func (s *ConciergeService) rules(ctx context.Context, message string) domain.ConciergeReply {
	lower := strings.ToLower(strings.TrimSpace(message))

	if greetingPattern.MatchString(lower) {
		return domain.ConciergeReply{
			Text:        "Hello, book lover! I'm your Book Concierge. I can help you discover your next great read! Try asking me for recommendations by genre, mood, or just tell me what you're in the mood for.",
			Suggestions: []string{"Fantasy books", "Feel-good reads", "Mystery novels", "Award winners"},
		}
	}

	for _, g := range genrePatterns {
		if g.pattern.MatchString(lower) {
			return domain.ConciergeReply{
				Text:  "Great choice! Here are some popular " + strings.ReplaceAll(g.subject, "_", " ") + " books you might enjoy:",
				Books: s.subject(ctx, g.subject),
			}
		}
	}

	switch {
	case containsAny(lower, "happy", "feel good", "uplifting"):
		return domain.ConciergeReply{
			Text:  "Looking for something uplifting? Here are some feel-good reads that'll brighten your day:",
			Books: s.subject(ctx, "humor"),
		}
	case containsAny(lower, "sad", "cry", "emotional"):
		return domain.ConciergeReply{
			Text:  "Sometimes we need a good emotional journey. Here are some deeply moving reads:",
			Books: s.subject(ctx, "drama"),
		}
	case containsAny(lower, "recommend", "suggest", "what should"):
		return domain.ConciergeReply{
			Text:        "I'd love to help you find your next read! What are you in the mood for?",
			Suggestions: []string{"Something exciting", "A page-turner", "Light and fun", "Deep and thoughtful", "Award winners"},
		}
	case containsAny(lower, "award", "best", "popular"):
		return domain.ConciergeReply{
			Text:  "Here are some critically acclaimed books that have won readers' hearts:",
			Books: s.list(ctx, "curated", s.catalog.Curated),
		}
	case containsAny(lower, "trending", "new", "latest"):
		return domain.ConciergeReply{
			Text:  "Here's what's trending in the book world right now:",
			Books: s.list(ctx, "trends", s.catalog.Trends),
		}
	}

	if len(message) > 2 {
		books, err := s.catalog.Search(ctx, message)
		if err != nil {
			s.logger.Warn("concierge search failed", "query", message, "error", err)
		}
		if len(books) > 0 {
			return domain.ConciergeReply{
				Text:  "I found some books that might match what you're looking for:",
				Books: books[:min(len(books), conciergeBookLimit)],
			}
		}
	}

	return domain.ConciergeReply{
		Text:        "I'm here to help you discover great books! You can ask me for recommendations by genre (fantasy, mystery, romance), mood (feel-good, thrilling, emotional), or just describe what you're looking for.",
		Suggestions: []string{"Show me fantasy books", "I want something thrilling", "Award-winning novels", "What's trending?"},
	}
}

func (s *ConciergeService) subject(ctx context.Context, subject string) []domain.Book {
	books, err := s.catalog.Subject(ctx, subject, conciergeBookLimit)
	if err != nil {
		s.logger.Warn("concierge subject lookup failed", "subject", subject, "error", err)
		return []domain.Book{}
	}
	return books
}

func (s *ConciergeService) list(ctx context.Context, op string, fetch func(context.Context) ([]domain.Book, error)) []domain.Book {
	books, err := fetch(ctx)
	if err != nil {
		s.logger.Warn("concierge list failed", "op", op, "error", err)
		return []domain.Book{}
	}
	return books
}

// Suggestions returns follow-up queries for a mood expressed in query.
func (s *ConciergeService) Suggestions(query string) []string {
	lower := strings.ToLower(query)
	switch {
	case containsAny(lower, "happy", "feel good"):
		return []string{"cozy fantasy", "romantic comedy", "heartwarming fiction"}
	case containsAny(lower, "sad", "cry"):
		return []string{"emotional fiction", "tearjerker", "grief"}
	case containsAny(lower, "scary", "creepy"):
		return []string{"horror", "psychological thriller", "gothic"}
	case containsAny(lower, "learn", "educational"):
		return []string{"non-fiction", "popular science", "history"}
	}
	return []string{}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
