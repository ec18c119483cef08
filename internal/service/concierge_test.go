package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

var (
	aiSource      = domain.Source{Name: "Gemini AI", IsAI: true, Badge: "AI-Curated"}
	catalogSource = domain.Source{Name: "Open Library"}
	errUpstream   = errors.New("upstream unavailable")
)

type stubChatter struct {
	reply   string
	err     error
	history []domain.ChatMessage
}

func (c *stubChatter) Chat(_ context.Context, history []domain.ChatMessage, _ string) (string, error) {
	c.history = history
	return c.reply, c.err
}

type stubCatalog struct {
	subjects []string
	searches []string
	err      error
}

func books(prefix string, n int) []domain.Book {
	out := make([]domain.Book, n)
	for i := range out {
		out[i] = domain.Book{ID: prefix + string(rune('a'+i)), Title: prefix}
	}
	return out
}

func (c *stubCatalog) Search(_ context.Context, query string) ([]domain.Book, error) {
	c.searches = append(c.searches, query)
	if c.err != nil {
		return nil, c.err
	}
	return books("search", 6), nil
}

func (c *stubCatalog) Subject(_ context.Context, subject string, limit int) ([]domain.Book, error) {
	c.subjects = append(c.subjects, subject)
	if c.err != nil {
		return nil, c.err
	}
	return books(subject, limit), nil
}

func (c *stubCatalog) Curated(context.Context) ([]domain.Book, error) {
	return books("curated", 5), c.err
}

func (c *stubCatalog) Trends(context.Context) ([]domain.Book, error) {
	return books("trending", 3), c.err
}

func newConcierge(chatter Chatter, catalog ConciergeCatalog, useAI bool) *ConciergeService {
	return NewConciergeService(chatter, catalog, ConciergeOptions{
		UseAI:      useAI,
		AISource:   aiSource,
		RuleSource: catalogSource,
	}, discardLogger())
}

func TestConcierge_Rules(t *testing.T) {
	tests := []struct {
		message     string
		subject     string
		firstBook   string
		suggestions []string
		bookCount   int
	}{
		{message: "Hello there", suggestions: []string{"Fantasy books", "Feel-good reads", "Mystery novels", "Award winners"}},
		{message: "any good Fantasy?", subject: "fantasy", bookCount: 4},
		{message: "I love science fiction", subject: "science_fiction", bookCount: 4},
		{message: "something scary", subject: "horror", bookCount: 4},
		{message: "historical please", subject: "historical_fiction", bookCount: 4},
		{message: "I want to feel good", subject: "humor", bookCount: 4},
		{message: "make me cry", subject: "drama", bookCount: 4},
		{message: "what should I read", suggestions: []string{"Something exciting", "A page-turner", "Light and fun", "Deep and thoughtful", "Award winners"}},
		{message: "best of all time", firstBook: "curated", bookCount: 5},
		{message: "latest releases", firstBook: "trending", bookCount: 3},
		{message: "dune", firstBook: "search", bookCount: 4},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			catalog := &stubCatalog{}
			reply := newConcierge(nil, catalog, false).Respond(context.Background(), ChatRequest{Message: tt.message})

			assert.Equal(t, catalogSource, reply.Source)
			assert.NotEmpty(t, reply.Text)
			assert.Equal(t, tt.suggestions, reply.Suggestions)
			assert.Len(t, reply.Books, tt.bookCount)
			if tt.subject != "" {
				assert.Equal(t, []string{tt.subject}, catalog.subjects)
				assert.Contains(t, reply.Text, "books you might enjoy")
			}
			if tt.firstBook != "" {
				assert.Equal(t, tt.firstBook, reply.Books[0].Title)
			}
		})
	}
}

func TestConcierge_GenreTextUsesSpaces(t *testing.T) {
	reply := newConcierge(nil, &stubCatalog{}, false).Respond(context.Background(), ChatRequest{Message: "sci-fi"})
	assert.Equal(t, "Great choice! Here are some popular science fiction books you might enjoy:", reply.Text)
}

func TestConcierge_DefaultHelp(t *testing.T) {
	catalog := &stubCatalog{err: errUpstream}

	reply := newConcierge(nil, catalog, false).Respond(context.Background(), ChatRequest{Message: "zzqx"})
	assert.Contains(t, reply.Text, "I'm here to help you discover great books")
	assert.Equal(t, []string{"Show me fantasy books", "I want something thrilling", "Award-winning novels", "What's trending?"}, reply.Suggestions)
	assert.Equal(t, []string{"zzqx"}, catalog.searches)

	short := newConcierge(nil, &stubCatalog{}, false).Respond(context.Background(), ChatRequest{Message: "ok"})
	assert.Empty(t, short.Books)
	assert.Len(t, short.Suggestions, 4)
}

func TestConcierge_CatalogFailureStillReplies(t *testing.T) {
	reply := newConcierge(nil, &stubCatalog{err: errUpstream}, false).Respond(context.Background(), ChatRequest{Message: "mystery"})
	assert.Contains(t, reply.Text, "mystery")
	assert.NotNil(t, reply.Books)
	assert.Empty(t, reply.Books)
}

func TestConcierge_UsesAIWhenSelected(t *testing.T) {
	chatter := &stubChatter{reply: "Try Piranesi."}
	catalog := &stubCatalog{}

	history := make([]domain.ChatMessage, 30)
	for i := range history {
		history[i] = domain.ChatMessage{Role: domain.ChatRoleUser, Text: "msg"}
	}

	reply := newConcierge(chatter, catalog, true).Respond(context.Background(), ChatRequest{Message: "fantasy", History: history})
	assert.Equal(t, "Try Piranesi.", reply.Text)
	assert.Equal(t, aiSource, reply.Source)
	assert.Len(t, chatter.history, maxChatHistory)
	assert.Empty(t, catalog.subjects)
}

func TestConcierge_AIFailureFallsBackToRules(t *testing.T) {
	chatter := &stubChatter{err: errUpstream}
	catalog := &stubCatalog{}

	reply := newConcierge(chatter, catalog, true).Respond(context.Background(), ChatRequest{Message: "romance"})
	assert.Equal(t, catalogSource, reply.Source)
	require.Len(t, reply.Books, 4)
	assert.Equal(t, []string{"romance"}, catalog.subjects)
}

func TestConcierge_AIIgnoredWhenNotSelected(t *testing.T) {
	chatter := &stubChatter{reply: "unused"}
	reply := newConcierge(chatter, &stubCatalog{}, false).Respond(context.Background(), ChatRequest{Message: "hey"})
	assert.Equal(t, catalogSource, reply.Source)
	assert.Nil(t, chatter.history)
}

func TestConcierge_Suggestions(t *testing.T) {
	svc := newConcierge(nil, &stubCatalog{}, false)

	assert.Equal(t, []string{"cozy fantasy", "romantic comedy", "heartwarming fiction"}, svc.Suggestions("Something HAPPY"))
	assert.Equal(t, []string{"emotional fiction", "tearjerker", "grief"}, svc.Suggestions("sad"))
	assert.Equal(t, []string{"horror", "psychological thriller", "gothic"}, svc.Suggestions("creepy"))
	assert.Equal(t, []string{"non-fiction", "popular science", "history"}, svc.Suggestions("I want to learn"))
	assert.Empty(t, svc.Suggestions("dune"))
}
