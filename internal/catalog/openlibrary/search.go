package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/genre"
)

// placeholderCover is shown when a work has no cover of its own.
const placeholderCover = "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=300&h=450&fit=crop&auto=format"

const (
	defaultSearchRating  = 4.0
	defaultSubjectRating = 4.5
	defaultPageCount     = 300
	defaultSubjectPages  = 320
	unknownDate          = "Classic"
	unknownTitle         = "Unknown Title"
	unknownAuthor        = "Unknown Author"
	maxTags              = 5
)

// Search runs a free-text query (titles, authors, subjects) and returns up to 12 books.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Book, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("fields", searchFields)

	body, err := c.doRequest(ctx, "/search.json", params)
	if err != nil {
		return nil, wrapError("search", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", query, fmt.Errorf("parse response: %w", err))
	}

	books := make([]domain.Book, 0, len(resp.Docs))
	for i := range resp.Docs {
		books = append(books, c.searchDocToBook(&resp.Docs[i], i))
	}
	return books, nil
}

// ByGenre returns up to 8 works for a genre name or alias ("sci-fi", "Historical").
func (c *Client) ByGenre(ctx context.Context, name string) ([]domain.Book, error) {
	return c.Subject(ctx, genre.Subject(name), subjectLimit)
}

// Subject returns up to limit works filed under a catalog subject key.
func (c *Client) Subject(ctx context.Context, subject string, limit int) ([]domain.Book, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/subjects/"+url.PathEscape(subject)+".json", params)
	if err != nil {
		return nil, wrapError("subject", subject, err)
	}

	var resp subjectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("subject", subject, fmt.Errorf("parse response: %w", err))
	}

	label := genre.DisplayName(subject)
	books := make([]domain.Book, 0, len(resp.Works))
	for i := range resp.Works {
		w := &resp.Works[i]

		author := unknownAuthor
		if len(w.Authors) > 0 && w.Authors[0].Name != "" {
			author = w.Authors[0].Name
		}
		description := stripHTML(string(w.Description))
		if description == "" {
			description = fmt.Sprintf("An acclaimed %s book that has resonated with readers.", label)
		}
		published := unknownDate
		if w.FirstPublishYear > 0 {
			published = strconv.Itoa(w.FirstPublishYear)
		}

		books = append(books, domain.Book{
			ID:            workID(subject, w.Key, i),
			Title:         w.Title,
			Author:        author,
			CoverURL:      c.CoverURL(w.CoverID, "", ""),
			Rating:        defaultSubjectRating,
			Moods:         []string{label},
			Description:   description,
			PageCount:     defaultSubjectPages,
			PublishedDate: published,
		})
	}
	return books, nil
}

// CoverURL picks the best cover source: cover id, then ISBN, then edition key.
func (c *Client) CoverURL(coverID int64, isbn, olid string) string {
	switch {
	case coverID > 0:
		return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, coverID)
	case isbn != "":
		return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, isbn)
	case olid != "":
		return fmt.Sprintf("%s/b/olid/%s-L.jpg", c.coversURL, olid)
	default:
		return placeholderCover
	}
}

func (c *Client) searchDocToBook(doc *searchDoc, index int) domain.Book {
	author := unknownAuthor
	if len(doc.AuthorName) > 0 {
		author = doc.AuthorName[0]
	}
	title := doc.Title
	if title == "" {
		title = unknownTitle
	}

	var isbn string
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}

	description := ""
	if len(doc.FirstSentence) > 0 {
		description = stripHTML(doc.FirstSentence[0])
	}
	if description == "" {
		description = fmt.Sprintf("A captivating book by %s that has captured readers worldwide.", author)
	}

	rating := defaultSearchRating
	if doc.RatingsAverage > 0 {
		rating = math.Round(doc.RatingsAverage*10) / 10
	}

	pages := doc.NumberOfPagesMedian
	if pages <= 0 {
		pages = defaultPageCount
	}

	published := unknownDate
	if doc.FirstPublishYear > 0 {
		published = strconv.Itoa(doc.FirstPublishYear)
	}

	var series string
	if len(doc.Series) > 0 {
		series = doc.Series[0]
	}

	return domain.Book{
		ID:            workID("search", doc.Key, index),
		Title:         title,
		Author:        author,
		CoverURL:      c.CoverURL(doc.CoverID, isbn, doc.CoverEditionKey),
		Rating:        rating,
		Moods:         head(doc.Subject, maxTags),
		Description:   description,
		PageCount:     pages,
		PublishedDate: published,
		Series:        series,
		Characters:    head(doc.Person, maxTags),
		ISBN:          isbn,
	}
}

// workID builds a stable id from the work key ("/works/OL45883W" -> "search-OL45883W").
func workID(prefix, key string, index int) string {
	if k := strings.TrimPrefix(key, "/works/"); k != "" {
		return prefix + "-" + k
	}
	return prefix + "-" + strconv.Itoa(index)
}

func head(s []string, n int) []string {
	if len(s) == 0 {
		return []string{}
	}
	return append([]string(nil), s[:min(n, len(s))]...)
}
