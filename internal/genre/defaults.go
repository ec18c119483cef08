package genre

import "github.com/ohmyreads/ohmyreads-server/internal/domain"

// DefaultGenres is the browseable taxonomy. Slugs are catalog subject keys.
var DefaultGenres = []domain.Genre{
	{Slug: "fantasy", Name: "Fantasy", Description: "Magical worlds and epic adventures"},
	{Slug: "romance", Name: "Romance", Description: "Love stories that touch the heart"},
	{Slug: "mystery", Name: "Mystery", Description: "Puzzles, detectives, and suspense"},
	{Slug: "science_fiction", Name: "Science Fiction", Description: "Future worlds and technology"},
	{Slug: "horror", Name: "Horror", Description: "Tales that send shivers down your spine"},
	{Slug: "historical_fiction", Name: "Historical Fiction", Description: "Stories set in fascinating eras"},
	{Slug: "thriller", Name: "Thriller", Description: "Heart-pounding suspense"},
	{Slug: "literary_fiction", Name: "Literary Fiction", Description: "Character-driven narratives"},
	{Slug: "young_adult", Name: "Young Adult", Description: "Coming-of-age adventures"},
	{Slug: "humor", Name: "Humor", Description: "Books that make you laugh"},
	{Slug: "paranormal", Name: "Paranormal", Description: "Supernatural and otherworldly"},
	{Slug: "nonfiction", Name: "Non-Fiction", Description: "Real stories and knowledge"},
}

// Lookup returns the default genre with the given subject slug.
func Lookup(slug string) (domain.Genre, bool) {
	for _, g := range DefaultGenres {
		if g.Slug == slug {
			return g, true
		}
	}
	return domain.Genre{}, false
}
