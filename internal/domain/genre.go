package domain

// Genre is a browseable subject in the catalog taxonomy.
type Genre struct {
	Slug        string `json:"slug"`         // Catalog subject key: "science_fiction"
	Name        string `json:"name"`         // Display name: "Science Fiction"
	Description string `json:"description"`
}
