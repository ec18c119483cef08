package domain

// Book is a recommendation or catalog result.
// Books are produced fresh by a provider for each query; the same work from
// two providers is not reconciled.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	CoverURL      string   `json:"cover_url"`
	Rating        float64  `json:"rating"`
	Moods         []string `json:"moods"`
	Description   string   `json:"description"`
	PageCount     int      `json:"page_count"`
	PublishedDate string   `json:"published_date"`
	Awards        []string `json:"awards,omitempty"`
	Series        string   `json:"series,omitempty"`
	Characters    []string `json:"characters,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
}

// Source describes where a set of recommendations came from.
type Source struct {
	Name  string `json:"name"`
	IsAI  bool   `json:"is_ai"`
	Badge string `json:"badge,omitempty"`
}
