package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// ErrMissingUser is returned when a search is not scoped to a user.
var ErrMissingUser = errors.New("search: user id required")

// SearchParams configures a shelf search.
type SearchParams struct {
	UserID string // Required; results never cross shelves
	Query  string
	Status string // Optional status filter

	Limit  int
	Offset int

	SortBy    string // "relevance", "title", "author", "added"
	SortOrder string // "asc", "desc"

	Highlight bool
}

// DefaultSearchParams returns sensible defaults for a user's shelf.
func DefaultSearchParams(userID string) SearchParams {
	return SearchParams{
		UserID:    userID,
		Limit:     20,
		SortBy:    "relevance",
		SortOrder: "desc",
		Highlight: true,
	}
}

// SearchResult holds the matching shelf entries.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a single matching shelf entry.
type SearchHit struct {
	BookID     string            `json:"book_id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	Series     string            `json:"series,omitempty"`
	Status     string            `json:"status"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a shelf search.
func (s *ShelfIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.UserID == "" {
		return nil, ErrMissingUser
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(searchRequest, params)

	if params.Highlight && params.Query != "" {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{"book_id", "title", "author", "series", "status"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{Score: hit.Score}

		if v, ok := hit.Fields["book_id"].(string); ok {
			searchHit.BookID = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = v
		}
		if v, ok := hit.Fields["series"].(string); ok {
			searchHit.Series = v
		}
		if v, ok := hit.Fields["status"].(string); ok {
			searchHit.Status = v
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery combines the owner filter, optional status filter and the
// text query with AND.
func buildSearchQuery(params SearchParams) query.Query {
	owner := bleve.NewTermQuery(params.UserID)
	owner.SetField("user_id")
	queries := []query.Query{owner}

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(q)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)

		seriesMatch := bleve.NewMatchQuery(q)
		seriesMatch.SetField("series")
		seriesMatch.SetBoost(1.5)

		moodsMatch := bleve.NewMatchQuery(q)
		moodsMatch.SetField("moods")

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")
		descMatch.SetBoost(0.5)

		// Typo tolerance on the title
		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, authorMatch, seriesMatch, moodsMatch, descMatch, fuzzyQuery}

		// Prefix for type-ahead, minimum 2 chars
		if len(q) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Status != "" {
		status := bleve.NewTermQuery(params.Status)
		status.SetField("status")
		queries = append(queries, status)
	}

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	desc := params.SortOrder == "desc"
	switch params.SortBy {
	case "title":
		if desc {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "author":
		if desc {
			req.SortBy([]string{"-author", "-title"})
		} else {
			req.SortBy([]string{"author", "title"})
		}
	case "added":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"added_at"})
		} else {
			req.SortBy([]string{"-added_at"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}
