package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// pick is an editorially chosen book identified by ISBN.
type pick struct {
	ISBN   string
	Title  string
	Author string
	Mood   string
	Rating float64
}

var curatedPicks = []pick{
	{ISBN: "9780525559474", Title: "The Midnight Library", Author: "Matt Haig", Mood: "Philosophical", Rating: 4.6},
	{ISBN: "9780593315637", Title: "Tomorrow, and Tomorrow, and Tomorrow", Author: "Gabrielle Zevin", Mood: "Gaming", Rating: 4.7},
	{ISBN: "9780593321201", Title: "Lessons in Chemistry", Author: "Bonnie Garmus", Mood: "Feminist", Rating: 4.6},
	{ISBN: "9780593230251", Title: "The House in the Cerulean Sea", Author: "TJ Klune", Mood: "Cozy Fantasy", Rating: 4.8},
}

var communityPicks = []pick{
	{ISBN: "9781501110368", Title: "It Ends with Us", Author: "Colleen Hoover", Mood: "BookTok Favorite", Rating: 4.5},
	{ISBN: "9780316769488", Title: "The Catcher in the Rye", Author: "J.D. Salinger", Mood: "Classic", Rating: 4.3},
	{ISBN: "9780062316110", Title: "Sapiens", Author: "Yuval Noah Harari", Mood: "Mind-Expanding", Rating: 4.6},
	{ISBN: "9780735219106", Title: "Where the Crawdads Sing", Author: "Delia Owens", Mood: "Atmospheric", Rating: 4.7},
}

var trendingPicks = []pick{
	{ISBN: "9781984801258", Title: "A Court of Thorns and Roses", Author: "Sarah J. Maas", Mood: "Romantasy", Rating: 4.6},
	{ISBN: "9780593499597", Title: "Fourth Wing", Author: "Rebecca Yarros", Mood: "Dragons", Rating: 4.8},
	{ISBN: "9780593135204", Title: "Atomic Habits", Author: "James Clear", Mood: "Self-Improvement", Rating: 4.7},
	{ISBN: "9780593594117", Title: "Iron Flame", Author: "Rebecca Yarros", Mood: "Fantasy", Rating: 4.5},
}

// Curated returns the award-winner picks, enriched with edition data.
// Each pick is looked up concurrently; a failed lookup keeps the static entry.
func (c *Client) Curated(ctx context.Context) ([]domain.Book, error) {
	books := make([]domain.Book, len(curatedPicks))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range curatedPicks {
		g.Go(func() error {
			book := c.pickToBook(p, "curated", i)
			book.Description = "A critically acclaimed novel that has captured hearts worldwide."
			book.PageCount = 350
			book.PublishedDate = "2022"
			book.Moods = []string{p.Mood, "Award Winner"}
			book.Awards = []string{"Goodreads Choice Award Nominee"}

			ed, err := c.LookupISBN(gctx, p.ISBN)
			if err != nil {
				c.logger.Debug("using static curated entry", "isbn", p.ISBN, "error", err)
			} else {
				if d := stripHTML(string(ed.Description)); d != "" {
					book.Description = d
				}
				if ed.NumberOfPages > 0 {
					book.PageCount = ed.NumberOfPages
				}
				if ed.PublishDate != "" {
					book.PublishedDate = ed.PublishDate
				}
			}
			books[i] = book
			// Per-book failures never fail the list.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Community returns book club and BookTok favorites. No network access.
func (c *Client) Community(_ context.Context) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(communityPicks))
	for i, p := range communityPicks {
		b := c.pickToBook(p, "community", i)
		b.Description = "A beloved book that has sparked countless discussions in reading communities."
		b.PageCount = 320
		b.PublishedDate = "Recent"
		b.Moods = []string{p.Mood, "Community Pick"}
		books = append(books, b)
	}
	return books, nil
}

// Trends returns what is selling and circulating right now. No network access.
func (c *Client) Trends(_ context.Context) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(trendingPicks))
	for i, p := range trendingPicks {
		b := c.pickToBook(p, "trending", i)
		b.Description = "Currently trending across bookstores and social media. A must-read of the moment."
		b.PageCount = 400
		b.PublishedDate = "2023-2024"
		b.Moods = []string{p.Mood, "Trending Now"}
		books = append(books, b)
	}
	return books, nil
}

// LookupISBN fetches edition metadata by ISBN.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Edition, error) {
	body, err := c.doRequest(ctx, "/isbn/"+isbn+".json", nil)
	if err != nil {
		return nil, wrapError("isbn", isbn, err)
	}
	var ed Edition
	if err := json.Unmarshal(body, &ed); err != nil {
		return nil, wrapError("isbn", isbn, fmt.Errorf("parse response: %w", err))
	}
	return &ed, nil
}

func (c *Client) pickToBook(p pick, prefix string, index int) domain.Book {
	return domain.Book{
		ID:         prefix + "-" + strconv.Itoa(index),
		Title:      p.Title,
		Author:     p.Author,
		CoverURL:   c.CoverURL(0, p.ISBN, ""),
		Rating:     p.Rating,
		ISBN:       p.ISBN,
		Awards:     []string{},
		Characters: []string{},
	}
}
