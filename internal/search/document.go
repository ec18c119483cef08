// Package search provides full-text search over readers' shelves using Bleve.
// Every shelf entry is one document, scoped to its owner by a keyword field.
package search

import (
	"strconv"
	"strings"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// ShelfDocument is the indexed form of a shelf entry.
//
// Book fields are denormalized from the entry's book snapshot so a single
// query covers title, author, series and moods.
type ShelfDocument struct {
	ID     string `json:"id"` // DocID(UserID, BookID)
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`

	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Series      string   `json:"series,omitempty"`
	Description string   `json:"description,omitempty"`
	Moods       []string `json:"moods,omitempty"`

	Status      string `json:"status"`
	PublishYear int    `json:"publish_year,omitempty"`

	AddedAt   int64 `json:"added_at"`   // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// DocID is the document id for a user's copy of a book.
func DocID(userID, bookID string) string {
	return userID + ":" + bookID
}

// ToMap converts the document to a map keyed by the mapped field names.
func (d *ShelfDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"user_id":    d.UserID,
		"book_id":    d.BookID,
		"title":      d.Title,
		"status":     d.Status,
		"added_at":   d.AddedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Series != "" {
		m["series"] = d.Series
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Moods) > 0 {
		moods := make([]string, len(d.Moods))
		for i, mood := range d.Moods {
			moods[i] = strings.ToLower(mood)
		}
		m["moods"] = moods
	}
	if d.PublishYear > 0 {
		m["publish_year"] = d.PublishYear
	}

	return m
}

// EntryToDocument converts a shelf entry to a ShelfDocument.
func EntryToDocument(e *domain.ShelfEntry) *ShelfDocument {
	doc := &ShelfDocument{
		ID:          DocID(e.UserID, e.BookID),
		UserID:      e.UserID,
		BookID:      e.BookID,
		Title:       e.Book.Title,
		Author:      e.Book.Author,
		Series:      e.Book.Series,
		Description: e.Book.Description,
		Moods:       e.Book.Moods,
		Status:      string(e.Status),
		AddedAt:     e.AddedAt.UnixMilli(),
		UpdatedAt:   e.UpdatedAt.UnixMilli(),
	}

	// Catalog dates are free text ("1965", "2023-2024", "Classic").
	if len(e.Book.PublishedDate) >= 4 {
		if year, err := strconv.Atoi(e.Book.PublishedDate[:4]); err == nil {
			doc.PublishYear = year
		}
	}

	return doc
}
