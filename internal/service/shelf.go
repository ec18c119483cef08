package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/search"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

// ShelfIndexer is the subset of the shelf search index the service needs.
type ShelfIndexer interface {
	IndexDocument(doc *search.ShelfDocument) error
	IndexDocuments(docs []*search.ShelfDocument) error
	DeleteDocument(id string) error
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// GoalsRecorder receives reading activity from the shelf.
type GoalsRecorder interface {
	LogReading(ctx context.Context, userID string, pages int) (*domain.ReadingGoals, error)
	CompleteBook(ctx context.Context, userID string) (*domain.ReadingGoals, error)
}

// AddToShelfRequest adds a book snapshot to the caller's shelf.
type AddToShelfRequest struct {
	Book       domain.Book        `json:"book"`
	Status     domain.ShelfStatus `json:"status,omitempty" validate:"omitempty,shelf_status"`
	TotalPages int                `json:"total_pages,omitempty" validate:"gte=0,lte=100000"`
}

// ShelfService manages readers' personal shelves.
//
// Finishing a book counts toward the yearly goal once per transition into
// finished, and page progress is logged as reading activity.
type ShelfService struct {
	store     *store.Store
	goals     GoalsRecorder
	index     ShelfIndexer
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewShelfService creates a new shelf service.
func NewShelfService(st *store.Store, goals GoalsRecorder, index ShelfIndexer, v *validation.Validator, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:     st,
		goals:     goals,
		index:     index,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Add puts a book on the user's shelf. The default status is want_to_read.
func (s *ShelfService) Add(ctx context.Context, userID string, req AddToShelfRequest) (*domain.ShelfEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.validator.Var("book.id", req.Book.ID, "required,max=200,excludes=/"); err != nil {
		return nil, err
	}
	if err := s.validator.Var("book.title", strings.TrimSpace(req.Book.Title), "required,max=500"); err != nil {
		return nil, err
	}

	now := s.now()
	entry := &domain.ShelfEntry{
		UserID:     userID,
		BookID:     req.Book.ID,
		Book:       req.Book,
		Status:     domain.ShelfWantToRead,
		TotalPages: req.TotalPages,
		AddedAt:    now,
		UpdatedAt:  now,
	}
	if entry.TotalPages == 0 {
		entry.TotalPages = req.Book.PageCount
	}
	if req.Status != "" {
		entry.Status = req.Status
	}
	finished := s.enterStatus(entry, domain.ShelfWantToRead, entry.Status, now)

	if err := s.store.Shelf.Create(ctx, store.ShelfKey(userID, entry.BookID), entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("%q is already on your shelf", entry.Book.Title)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "add to shelf")
	}

	s.indexEntry(entry)

	if finished {
		if err := s.countFinished(ctx, userID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("book added to shelf",
		"user_id", userID,
		"book_id", entry.BookID,
		"status", entry.Status)

	return entry, nil
}

// Get returns one shelf entry.
func (s *ShelfService) Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	entry, err := s.store.Shelf.Get(ctx, store.ShelfKey(userID, bookID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("book %s is not on your shelf", bookID)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get shelf entry")
	}
	return entry, nil
}

// List returns the user's shelf, most recently updated first, optionally
// filtered by status.
func (s *ShelfService) List(ctx context.Context, userID string, status domain.ShelfStatus) ([]*domain.ShelfEntry, error) {
	if status != "" {
		if err := s.validator.Var("status", string(status), "shelf_status"); err != nil {
			return nil, err
		}
	}

	entries, err := s.store.Shelf.List(ctx, store.ShelfPrefix(userID))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list shelf")
	}

	if status != "" {
		entries = slices.DeleteFunc(entries, func(e *domain.ShelfEntry) bool { return e.Status != status })
	}
	slices.SortStableFunc(entries, func(a, b *domain.ShelfEntry) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if entries == nil {
		entries = []*domain.ShelfEntry{}
	}
	return entries, nil
}

// Stats counts the user's shelf by status.
func (s *ShelfService) Stats(ctx context.Context, userID string) (*domain.ShelfStats, error) {
	entries, err := s.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	stats := &domain.ShelfStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case domain.ShelfWantToRead:
			stats.WantToRead++
		case domain.ShelfReading:
			stats.Reading++
		case domain.ShelfFinished:
			stats.Finished++
		case domain.ShelfDNF:
			stats.DNF++
		}
	}
	return stats, nil
}

// UpdateStatus moves a book to a new status.
func (s *ShelfService) UpdateStatus(ctx context.Context, userID, bookID string, status domain.ShelfStatus) (*domain.ShelfEntry, error) {
	if err := s.validator.Var("status", string(status), "required,shelf_status"); err != nil {
		return nil, err
	}

	entry, err := s.Get(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if entry.Status == status {
		return entry, nil
	}

	now := s.now()
	old := entry.Status
	entry.Status = status
	finished := s.enterStatus(entry, old, status, now)
	entry.UpdatedAt = now

	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}
	if finished {
		if err := s.countFinished(ctx, userID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("shelf status changed",
		"user_id", userID,
		"book_id", bookID,
		"from", old,
		"to", status)

	return entry, nil
}

// progressRule bounds the page a reader can report.
var progressRule = "gte=0,lte=" + strconv.Itoa(domain.MaxBookPages)

// UpdateProgress sets the current page. Pages gained since the last update
// are logged as reading; reaching the last page finishes the book.
//
// A jump of more than domain.MaxPagesPerLog pages is rejected before anything
// is written. If logging the pages fails the previous entry is restored, so
// stored progress never runs ahead of the goals record.
func (s *ShelfService) UpdateProgress(ctx context.Context, userID, bookID string, page int) (*domain.ShelfEntry, error) {
	if err := s.validator.Var("progress", page, progressRule); err != nil {
		return nil, err
	}

	entry, err := s.Get(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	prev := *entry

	if entry.TotalPages > 0 {
		page = min(page, entry.TotalPages)
	}
	delta := page - entry.Progress
	if delta > domain.MaxPagesPerLog {
		return nil, domainerrors.Validationf(
			"progress can advance at most %d pages per update (from page %d to %d)",
			domain.MaxPagesPerLog, entry.Progress, page)
	}

	now := s.now()
	old := entry.Status
	entry.Progress = page
	entry.UpdatedAt = now

	next := old
	switch {
	case entry.TotalPages > 0 && page >= entry.TotalPages:
		next = domain.ShelfFinished
	case page > 0 && old == domain.ShelfWantToRead:
		next = domain.ShelfReading
	}
	entry.Status = next
	finished := s.enterStatus(entry, old, next, now)

	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}

	if delta > 0 {
		if _, err := s.goals.LogReading(ctx, userID, delta); err != nil {
			s.restore(ctx, &prev)
			return nil, fmt.Errorf("log reading: %w", err)
		}
	}
	if finished {
		if err := s.countFinished(ctx, userID); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// Remove takes a book off the user's shelf.
func (s *ShelfService) Remove(ctx context.Context, userID, bookID string) error {
	if _, err := s.Get(ctx, userID, bookID); err != nil {
		return err
	}

	if err := s.store.Shelf.Delete(ctx, store.ShelfKey(userID, bookID)); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "remove from shelf")
	}

	if err := s.index.DeleteDocument(search.DocID(userID, bookID)); err != nil {
		s.logger.Warn("failed to remove shelf entry from index",
			"user_id", userID,
			"book_id", bookID,
			"error", err)
	}

	s.logger.Info("book removed from shelf", "user_id", userID, "book_id", bookID)
	return nil
}

// Search runs a full-text query over the user's shelf and returns the
// matching entries in relevance order.
func (s *ShelfService) Search(ctx context.Context, userID, query string, status domain.ShelfStatus) ([]*domain.ShelfEntry, error) {
	if err := s.validator.Var("q", query, "max=200"); err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams(userID)
	params.Query = query
	params.Status = string(status)
	params.Highlight = false

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search shelf")
	}

	entries := make([]*domain.ShelfEntry, 0, len(result.Hits))
	for _, hit := range result.Hits {
		entry, err := s.store.Shelf.Get(ctx, store.ShelfKey(userID, hit.BookID))
		if errors.Is(err, store.ErrNotFound) {
			// Index lags a delete; skip.
			continue
		}
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load shelf entry")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReindexAll rebuilds index documents for every shelf entry.
func (s *ShelfService) ReindexAll(ctx context.Context) (int, error) {
	entries, err := s.store.Shelf.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list shelf entries: %w", err)
	}

	docs := make([]*search.ShelfDocument, len(entries))
	for i, e := range entries {
		docs[i] = search.EntryToDocument(e)
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index shelf entries: %w", err)
	}

	s.logger.Info("shelf index rebuilt", "entries", len(docs))
	return len(docs), nil
}

// enterStatus applies the side effects of moving from old to next and
// reports whether this is a transition into finished.
func (s *ShelfService) enterStatus(e *domain.ShelfEntry, old, next domain.ShelfStatus, now time.Time) bool {
	switch next {
	case domain.ShelfReading:
		if e.StartDate == nil {
			e.StartDate = &now
		}
		e.FinishDate = nil
	case domain.ShelfFinished:
		if e.StartDate == nil {
			e.StartDate = &now
		}
		e.FinishDate = &now
		if e.TotalPages > 0 {
			e.Progress = e.TotalPages
		}
	default:
		e.FinishDate = nil
	}
	return next == domain.ShelfFinished && old != domain.ShelfFinished
}

func (s *ShelfService) save(ctx context.Context, entry *domain.ShelfEntry) error {
	if err := s.store.Shelf.Put(ctx, store.ShelfKey(entry.UserID, entry.BookID), entry); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "save shelf entry")
	}
	s.indexEntry(entry)
	return nil
}

// indexEntry updates the search index. Index failures are logged, not
// returned; ReindexAll repairs drift.
func (s *ShelfService) indexEntry(entry *domain.ShelfEntry) {
	if err := s.index.IndexDocument(search.EntryToDocument(entry)); err != nil {
		s.logger.Warn("failed to index shelf entry",
			"user_id", entry.UserID,
			"book_id", entry.BookID,
			"error", err)
	}
}

// restore puts back an entry after a failed follow-up write.
func (s *ShelfService) restore(ctx context.Context, prev *domain.ShelfEntry) {
	if err := s.save(ctx, prev); err != nil {
		s.logger.Error("failed to restore shelf entry",
			"user_id", prev.UserID,
			"book_id", prev.BookID,
			"error", err)
	}
}

func (s *ShelfService) countFinished(ctx context.Context, userID string) error {
	if _, err := s.goals.CompleteBook(ctx, userID); err != nil {
		return fmt.Errorf("count finished book: %w", err)
	}
	return nil
}
