package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf",
		Summary:     "List my shelf",
		Description: "Returns the reader's shelf, most recently updated first",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelf)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addToShelf",
		Method:        http.MethodPost,
		Path:          "/api/v1/shelf",
		Summary:       "Add a book to my shelf",
		Description:   "Stores a snapshot of the book with a reading status",
		Tags:          []string{"Shelf"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddToShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelfStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/stats",
		Summary:     "Shelf statistics",
		Description: "Counts shelf entries by status",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelfStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/search",
		Summary:     "Search my shelf",
		Description: "Full-text search over titles, authors, series and moods on the reader's shelf",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShelfStatus",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelf/{bookID}/status",
		Summary:     "Change reading status",
		Description: "Moves a book between want to read, reading, finished and did not finish",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateShelfStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShelfProgress",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelf/{bookID}/progress",
		Summary:     "Update reading progress",
		Description: "Sets the current page; new pages count toward today's goal",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateShelfProgress)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFromShelf",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shelf/{bookID}",
		Summary:       "Remove a book from my shelf",
		Tags:          []string{"Shelf"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromShelf)
}

// === DTOs ===

// BookInput is a book snapshot supplied by the client. Only id and title are
// required; everything else is copied as given.
type BookInput struct {
	ID            string   `json:"id" minLength:"1" maxLength:"200" doc:"Provider book ID"`
	Title         string   `json:"title" minLength:"1" maxLength:"500" doc:"Title"`
	Author        string   `json:"author,omitempty" doc:"Author"`
	CoverURL      string   `json:"cover_url,omitempty" doc:"Cover image URL"`
	Rating        float64  `json:"rating,omitempty" doc:"Average rating"`
	Moods         []string `json:"moods,omitempty" doc:"Mood and genre tags"`
	Description   string   `json:"description,omitempty" doc:"Description"`
	PageCount     int      `json:"page_count,omitempty" doc:"Page count"`
	PublishedDate string   `json:"published_date,omitempty" doc:"Publication date as given by the provider"`
	Series        string   `json:"series,omitempty" doc:"Series name"`
	ISBN          string   `json:"isbn,omitempty" doc:"ISBN"`
}

func (b BookInput) toDomain() domain.Book {
	return domain.Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		CoverURL:      b.CoverURL,
		Rating:        b.Rating,
		Moods:         b.Moods,
		Description:   b.Description,
		PageCount:     b.PageCount,
		PublishedDate: b.PublishedDate,
		Series:        b.Series,
		ISBN:          b.ISBN,
	}
}

// AddToShelfRequest is the request body for adding a book.
type AddToShelfRequest struct {
	Book       BookInput          `json:"book" doc:"Book snapshot"`
	Status     domain.ShelfStatus `json:"status,omitempty" enum:"want_to_read,reading,finished,dnf" doc:"Initial status (default want_to_read)"`
	TotalPages int                `json:"total_pages,omitempty" minimum:"0" doc:"Page count override"`
}

// AddToShelfInput wraps the add request for Huma.
type AddToShelfInput struct {
	Authorization string `header:"Authorization"`
	Body          AddToShelfRequest
}

// ShelfEntryOutput wraps one entry for Huma.
type ShelfEntryOutput struct {
	Body *domain.ShelfEntry
}

// ListShelfInput filters the shelf by status.
type ListShelfInput struct {
	Authorization string             `header:"Authorization"`
	Status        domain.ShelfStatus `query:"status" enum:"want_to_read,reading,finished,dnf" doc:"Only entries with this status"`
}

// ShelfListResponse lists shelf entries.
type ShelfListResponse struct {
	Entries []*domain.ShelfEntry `json:"entries" doc:"Shelf entries"`
	Total   int                  `json:"total" doc:"Number of entries"`
}

// ShelfListOutput wraps a shelf listing for Huma.
type ShelfListOutput struct {
	Body ShelfListResponse
}

// ShelfStatsOutput wraps shelf stats for Huma.
type ShelfStatsOutput struct {
	Body *domain.ShelfStats
}

// SearchShelfInput contains the shelf search query.
type SearchShelfInput struct {
	Authorization string             `header:"Authorization"`
	Query         string             `query:"q" maxLength:"200" doc:"Search text; empty lists everything"`
	Status        domain.ShelfStatus `query:"status" enum:"want_to_read,reading,finished,dnf" doc:"Only entries with this status"`
}

// UpdateShelfStatusInput changes an entry's status.
type UpdateShelfStatusInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
	Body          struct {
		Status domain.ShelfStatus `json:"status" enum:"want_to_read,reading,finished,dnf" doc:"New status"`
	}
}

// UpdateShelfProgressInput sets the current page.
type UpdateShelfProgressInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
	Body          struct {
		Progress int `json:"progress" minimum:"0" doc:"Current page"`
	}
}

// ShelfBookInput addresses one shelf entry.
type ShelfBookInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleListShelf(ctx context.Context, input *ListShelfInput) (*ShelfListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Shelf.List(ctx, userID, input.Status)
	if err != nil {
		return nil, err
	}
	return &ShelfListOutput{Body: ShelfListResponse{Entries: entries, Total: len(entries)}}, nil
}

func (s *Server) handleAddToShelf(ctx context.Context, input *AddToShelfInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.Add(ctx, userID, service.AddToShelfRequest{
		Book:       input.Body.Book.toDomain(),
		Status:     input.Body.Status,
		TotalPages: input.Body.TotalPages,
	})
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: entry}, nil
}

func (s *Server) handleGetShelfStats(ctx context.Context, _ *AuthenticatedInput) (*ShelfStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Shelf.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ShelfStatsOutput{Body: stats}, nil
}

func (s *Server) handleSearchShelf(ctx context.Context, input *SearchShelfInput) (*ShelfListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Shelf.Search(ctx, userID, input.Query, input.Status)
	if err != nil {
		return nil, err
	}
	return &ShelfListOutput{Body: ShelfListResponse{Entries: entries, Total: len(entries)}}, nil
}

func (s *Server) handleUpdateShelfStatus(ctx context.Context, input *UpdateShelfStatusInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.UpdateStatus(ctx, userID, input.BookID, input.Body.Status)
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: entry}, nil
}

func (s *Server) handleUpdateShelfProgress(ctx context.Context, input *UpdateShelfProgressInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.UpdateProgress(ctx, userID, input.BookID, input.Body.Progress)
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: entry}, nil
}

func (s *Server) handleRemoveFromShelf(ctx context.Context, input *ShelfBookInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.Remove(ctx, userID, input.BookID); err != nil {
		return nil, err
	}
	return nil, nil
}
