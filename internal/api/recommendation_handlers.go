package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/genre"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendationSource",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/source",
		Summary:     "Get recommendation source",
		Description: "Describes which provider answers recommendation requests",
		Tags:        []string{"Recommendations"},
	}, s.handleGetRecommendationSource)

	for _, list := range []struct {
		id, path, summary string
		fetch             func(context.Context) []domain.Book
	}{
		{"getCuratedBooks", "curated", "Curated picks", s.services.Recommend.Curated},
		{"getCommunityBooks", "community", "Community favorites", s.services.Recommend.Community},
		{"getTrendingBooks", "trending", "Trending now", s.services.Recommend.Trending},
	} {
		huma.Register(s.api, huma.Operation{
			OperationID: list.id,
			Method:      http.MethodGet,
			Path:        "/api/v1/recommendations/" + list.path,
			Summary:     list.summary,
			Description: "Returns a recommendation list; an unavailable provider yields an empty list",
			Tags:        []string{"Recommendations"},
		}, s.listHandler(list.fetch))
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/search",
		Summary:     "Search books",
		Description: "Free-text book search through the active provider",
		Tags:        []string{"Recommendations"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPersonalizedBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/personalized",
		Summary:     "Personalized picks",
		Description: "Recommends books from a list of favorite genres",
		Tags:        []string{"Recommendations"},
	}, s.handlePersonalized)
}

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns the browseable genre taxonomy",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{slug}/books",
		Summary:     "Browse a genre",
		Description: "Returns popular books in a genre from the public catalog",
		Tags:        []string{"Genres"},
	}, s.handleGetGenreBooks)
}

// === DTOs ===

// BookListResponse is a list of books with the source that produced them.
type BookListResponse struct {
	Books  []domain.Book `json:"books" doc:"Recommended books"`
	Source domain.Source `json:"source" doc:"Provider that answered"`
}

// BookListOutput wraps a book list for Huma.
type BookListOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         BookListResponse
}

// SourceOutput wraps the source description for Huma.
type SourceOutput struct {
	Body domain.Source
}

// SearchBooksInput contains the search query.
type SearchBooksInput struct {
	Query string `query:"q" minLength:"1" maxLength:"200" doc:"Search text"`
}

// PersonalizedInput contains the reader's favorite genres.
type PersonalizedInput struct {
	Genres string `query:"genres" doc:"Comma separated favorite genres"`
}

// GenreListOutput wraps the taxonomy for Huma.
type GenreListOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         GenreListResponse
}

// GenreListResponse lists genres.
type GenreListResponse struct {
	Genres []domain.Genre `json:"genres" doc:"Browseable genres"`
}

// GenreBooksInput names the genre to browse.
type GenreBooksInput struct {
	Slug string `path:"slug" maxLength:"100" doc:"Genre slug or name"`
}

// GenreBooksResponse is a genre with its books.
type GenreBooksResponse struct {
	Genre domain.Genre  `json:"genre" doc:"Browsed genre"`
	Books []domain.Book `json:"books" doc:"Books in the genre"`
}

// GenreBooksOutput wraps a genre browse result for Huma.
type GenreBooksOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         GenreBooksResponse
}

// === Handlers ===

func (s *Server) handleGetRecommendationSource(_ context.Context, _ *struct{}) (*SourceOutput, error) {
	return &SourceOutput{Body: s.services.Recommend.SourceInfo()}, nil
}

func (s *Server) listHandler(fetch func(context.Context) []domain.Book) func(context.Context, *struct{}) (*BookListOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
		return s.bookList(fetch(ctx)), nil
	}
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BookListOutput, error) {
	return s.bookList(s.services.Recommend.Search(ctx, strings.TrimSpace(input.Query))), nil
}

func (s *Server) handlePersonalized(ctx context.Context, input *PersonalizedInput) (*BookListOutput, error) {
	var genres []string
	for g := range strings.SplitSeq(input.Genres, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	out := s.bookList(s.services.Recommend.Personalized(ctx, genres))
	out.CacheControl = CacheNoStore
	return out, nil
}

func (s *Server) bookList(books []domain.Book) *BookListOutput {
	return &BookListOutput{
		CacheControl: CacheFiveMinutes,
		Body: BookListResponse{
			Books:  books,
			Source: s.services.Recommend.SourceInfo(),
		},
	}
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*GenreListOutput, error) {
	return &GenreListOutput{
		CacheControl: CacheOneDay,
		Body:         GenreListResponse{Genres: genre.DefaultGenres},
	}, nil
}

func (s *Server) handleGetGenreBooks(ctx context.Context, input *GenreBooksInput) (*GenreBooksOutput, error) {
	subject := genre.Subject(input.Slug)
	g, ok := genre.Lookup(subject)
	if !ok {
		g = domain.Genre{Slug: subject, Name: genre.DisplayName(subject)}
	}

	return &GenreBooksOutput{
		CacheControl: CacheFiveMinutes,
		Body: GenreBooksResponse{
			Genre: g,
			Books: s.services.Recommend.ByGenre(ctx, input.Slug),
		},
	}, nil
}
