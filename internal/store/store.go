// Package store persists OhMyReads records as JSON documents in a key-value backend.
package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// Key prefixes.
const (
	prefixGoals   = "goals:"
	prefixUser    = "user:"
	prefixShelf   = "shelf:"
	prefixReview  = "review:"
	prefixBlog    = "blog:"
	shelfKeySplit = ":"
)

// Store exposes typed entities over a KV backend.
type Store struct {
	kv     KV
	logger *slog.Logger

	Goals   *Entity[domain.ReadingGoals]
	Users   *Entity[domain.User]
	Shelf   *Entity[domain.ShelfEntry]
	Reviews *Entity[domain.Review]
	Blog    *Entity[domain.BlogPost]
}

// New wraps a KV backend.
func New(kv KV, logger *slog.Logger) *Store {
	s := &Store{kv: kv, logger: logger}

	s.Goals = NewEntity[domain.ReadingGoals](kv, prefixGoals)

	s.Users = NewEntity[domain.User](kv, prefixUser).
		WithIndexTransform("name",
			func(u *domain.User) []string { return []string{NormalizeName(u.Name)} },
			NormalizeName,
		)

	s.Shelf = NewEntity[domain.ShelfEntry](kv, prefixShelf)

	s.Reviews = NewEntity[domain.Review](kv, prefixReview).
		WithMultiIndex("book", func(r *domain.Review) []string { return []string{r.BookID} }).
		WithMultiIndex("user", func(r *domain.Review) []string { return []string{r.UserID} }).
		WithMultiIndex("status", func(r *domain.Review) []string { return []string{string(r.Status)} })

	s.Blog = NewEntity[domain.BlogPost](kv, prefixBlog)

	return s
}

// Ping reports backend health.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// ShelfKey returns the entity id for a user's shelf entry.
func ShelfKey(userID, bookID string) string {
	return userID + shelfKeySplit + bookID
}

// ShelfPrefix returns the id prefix covering all of a user's shelf entries.
func ShelfPrefix(userID string) string {
	return userID + shelfKeySplit
}

// NormalizeName folds a display name for case-insensitive lookup.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
