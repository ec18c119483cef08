// Package recommend routes recommendation requests to the configured source.
//
// The AI provider is preferred when configured; any failure there is retried
// once on the public catalog, and a catalog failure yields an empty list.
// Callers never see provider errors.
package recommend

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// Source names a recommendation backend.
type Source string

const (
	SourceAI      Source = "gemini"
	SourceCatalog Source = "open-library"
)

// Provider produces the core recommendation lists.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.Book, error)
	Curated(ctx context.Context) ([]domain.Book, error)
	Community(ctx context.Context) ([]domain.Book, error)
	Trends(ctx context.Context) ([]domain.Book, error)
}

// CatalogProvider is a Provider that can also browse by genre.
type CatalogProvider interface {
	Provider
	ByGenre(ctx context.Context, genre string) ([]domain.Book, error)
}

// Options controls source selection.
type Options struct {
	// Source is the configured source. SourceAI takes effect only when
	// EnableAI is also set.
	Source   Source
	EnableAI bool
	// Premium unlocks AI personalized recommendations.
	Premium bool
}

// Router selects a provider per request and applies the fallback policy.
type Router struct {
	source  Source
	premium bool
	ai      Provider
	catalog CatalogProvider
	logger  *slog.Logger
}

// NewRouter creates a Router. ai may be nil, in which case AI-sourced
// requests go straight to the catalog.
func NewRouter(opts Options, ai Provider, catalog CatalogProvider, logger *slog.Logger) *Router {
	source := SourceCatalog
	if opts.EnableAI && opts.Source == SourceAI {
		source = SourceAI
	}
	return &Router{
		source:  source,
		premium: opts.Premium,
		ai:      ai,
		catalog: catalog,
		logger:  logger,
	}
}

// Source reports the selected source.
func (r *Router) Source() Source {
	return r.source
}

// SourceInfo describes the selected source for display.
func (r *Router) SourceInfo() domain.Source {
	if r.source == SourceAI {
		return domain.Source{Name: "Gemini AI", IsAI: true, Badge: "AI-Curated"}
	}
	return domain.Source{Name: "Open Library", IsAI: false}
}

// Search finds books matching a free-text query.
func (r *Router) Search(ctx context.Context, query string) []domain.Book {
	return r.route(ctx, "search", func(p Provider, ctx context.Context) ([]domain.Book, error) {
		return p.Search(ctx, query)
	})
}

// Curated returns award winners and staff picks.
func (r *Router) Curated(ctx context.Context) []domain.Book {
	return r.route(ctx, "curated", Provider.Curated)
}

// Community returns book club and viral favorites.
func (r *Router) Community(ctx context.Context) []domain.Book {
	return r.route(ctx, "community", Provider.Community)
}

// Trending returns what is popular right now.
func (r *Router) Trending(ctx context.Context) []domain.Book {
	return r.route(ctx, "trending", Provider.Trends)
}

// ByGenre browses a genre. Only the catalog supports genre browsing, so the
// AI provider is not consulted even when selected.
func (r *Router) ByGenre(ctx context.Context, slug string) []domain.Book {
	books, err := r.catalog.ByGenre(ctx, slug)
	if err != nil {
		r.logger.Error("genre browse failed", "genre", slug, "provider", r.catalog.Name(), "error", err)
		return []domain.Book{}
	}
	return nonNil(books)
}

// Personalized recommends books from a reader's favorite genres. AI
// personalization requires the premium flag; otherwise the first favorite
// genre is browsed on the catalog, or curated picks when there is none.
func (r *Router) Personalized(ctx context.Context, favoriteGenres []string) []domain.Book {
	if r.source == SourceAI && r.premium && r.ai != nil {
		prompt := "Recommend popular books"
		if len(favoriteGenres) > 0 {
			prompt = "Recommend books similar to " + strings.Join(favoriteGenres, ", ") + " genres"
		}
		books, err := r.ai.Search(ctx, prompt)
		if err == nil {
			return nonNil(books)
		}
		r.logger.Warn("personalized recommendations failed, falling back",
			"provider", r.ai.Name(), "error", err)
	}

	if len(favoriteGenres) > 0 {
		return r.ByGenre(ctx, favoriteGenres[0])
	}
	return r.fromCatalog(ctx, "personalized", Provider.Curated)
}

// listFunc has the shape of a Provider method expression.
type listFunc func(p Provider, ctx context.Context) ([]domain.Book, error)

func (r *Router) route(ctx context.Context, op string, call listFunc) []domain.Book {
	if r.source == SourceAI {
		if r.ai == nil {
			r.logger.Warn("ai provider unavailable, falling back", "op", op)
		} else {
			books, err := call(r.ai, ctx)
			if err == nil {
				return nonNil(books)
			}
			r.logger.Warn("ai provider failed, falling back",
				"op", op, "provider", r.ai.Name(), "error", err)
		}
	}
	return r.fromCatalog(ctx, op, call)
}

func (r *Router) fromCatalog(ctx context.Context, op string, call listFunc) []domain.Book {
	books, err := call(r.catalog, ctx)
	if err != nil {
		r.logger.Error("catalog provider failed, returning empty list",
			"op", op, "provider", r.catalog.Name(), "error", err)
		return []domain.Book{}
	}
	return nonNil(books)
}

func nonNil(books []domain.Book) []domain.Book {
	if books == nil {
		return []domain.Book{}
	}
	return books
}
