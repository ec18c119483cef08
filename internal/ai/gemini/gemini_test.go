package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

type fakeGenerator struct {
	text     string
	noCands  bool
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	if f.noCands {
		return &genai.GenerateContentResponse{}, nil
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func newTestProvider(gen *fakeGenerator) *Provider {
	return newProvider(gen, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	p, err := New(context.Background(), Options{}, slog.Default())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestProvider_Search(t *testing.T) {
	gen := &fakeGenerator{text: `[
		{"title": "The Name of the Wind", "author": "Patrick Rothfuss", "description": "A legend.", "rating": 4.5,
		 "moods": ["epic"], "publishedDate": "2007", "pageCount": 662, "series": "Kingkiller Chronicle"},
		{"title": "Piranesi", "author": "Susanna Clarke", "rating": 4.2}
	]`}
	p := newTestProvider(gen)

	books, err := p.Search(context.Background(), "magic schools")
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)
	assert.Equal(t, genai.TypeArray, gen.config.ResponseSchema.Type)
	require.Len(t, gen.contents, 1)
	assert.Contains(t, gen.contents[0].Parts[0].Text, `"magic schools"`)

	assert.Equal(t, "search-0", books[0].ID)
	assert.Equal(t, "Kingkiller Chronicle", books[0].Series)
	assert.Equal(t, 662, books[0].PageCount)
	assert.Equal(t, "https://picsum.photos/seed/The%20Name%20of%20the%20Wind/300/450", books[0].CoverURL)

	assert.Equal(t, "search-1", books[1].ID)
	assert.NotNil(t, books[1].Moods)
}

func TestProvider_CuratedOverridesDescription(t *testing.T) {
	gen := &fakeGenerator{text: `[{"title": "A", "author": "B", "rating": 4.9}]`}
	books, err := newTestProvider(gen).Curated(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "curated-0", books[0].ID)
	assert.Equal(t, "A trending masterpiece selected just for you.", books[0].Description)
}

func TestProvider_FractionalPageCounts(t *testing.T) {
	gen := &fakeGenerator{text: `[
		{"title": "A", "author": "B", "pageCount": 320.0},
		{"title": "C", "author": "D", "pageCount": 411.6},
		{"title": "E", "author": "F", "pageCount": -3},
		{"title": "G", "author": "H", "pageCount": 1e9}
	]`}
	books, err := newTestProvider(gen).Trends(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 4)

	assert.Equal(t, 320, books[0].PageCount)
	assert.Equal(t, 412, books[1].PageCount)
	assert.Equal(t, 0, books[2].PageCount)
	assert.Equal(t, 100000, books[3].PageCount)
}

func TestProvider_EmptyArrayIsValid(t *testing.T) {
	gen := &fakeGenerator{text: `[]`}
	books, err := newTestProvider(gen).Trends(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestProvider_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")

	tests := []struct {
		name    string
		gen     *fakeGenerator
		wantErr error
	}{
		{name: "transport", gen: &fakeGenerator{err: boom}, wantErr: boom},
		{name: "no candidates", gen: &fakeGenerator{noCands: true}, wantErr: ErrEmptyResponse},
		{name: "malformed json", gen: &fakeGenerator{text: `[{"title": `}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := newTestProvider(tt.gen).Community(context.Background())
			require.Error(t, err)
			assert.Nil(t, books)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestProvider_Chat(t *testing.T) {
	gen := &fakeGenerator{text: "  Try The Hobbit.  "}
	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Text: "hi"},
		{Role: domain.ChatRoleModel, Text: "Hello reader!"},
	}

	reply, err := newTestProvider(gen).Chat(context.Background(), history, "something cozy")
	require.NoError(t, err)
	assert.Equal(t, "Try The Hobbit.", reply)

	require.Len(t, gen.contents, 3)
	assert.Equal(t, string(genai.RoleModel), gen.contents[1].Role)
	assert.Equal(t, "something cozy", gen.contents[2].Parts[0].Text)
	require.NotNil(t, gen.config.SystemInstruction)
	assert.Contains(t, gen.config.SystemInstruction.Parts[0].Text, "librarian")
}

func TestProvider_ChatEmptyReply(t *testing.T) {
	_, err := newTestProvider(&fakeGenerator{text: "   "}).Chat(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
