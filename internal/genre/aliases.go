package genre

import "strings"

// SubjectAliases maps short genre names people type to catalog subject keys.
var SubjectAliases = map[string]string{
	"fantasy":         "fantasy",
	"romance":         "romance",
	"mystery":         "mystery",
	"thriller":        "thriller",
	"sci-fi":          "science_fiction",
	"scifi":           "science_fiction",
	"science fiction": "science_fiction",
	"historical":      "historical_fiction",
	"literary":        "literary_fiction",
	"horror":          "horror",
	"scary":           "horror",
	"biography":       "biography",
	"self-help":       "self-help",
	"ya":              "young_adult",
	"young adult":     "young_adult",
	"non-fiction":     "nonfiction",
}

// Subject resolves free-form genre input ("Sci-Fi", "Historical Fiction",
// "Thrillér") to a catalog subject key. Unknown names are slugified with
// underscores between words.
func Subject(name string) string {
	if subject, ok := SubjectAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return subject
	}
	slug := Slugify(name)
	if subject, ok := SubjectAliases[slug]; ok {
		return subject
	}
	return strings.ReplaceAll(slug, "-", "_")
}

// DisplayName turns a subject key back into words: "science_fiction" -> "science fiction".
func DisplayName(subject string) string {
	return strings.ReplaceAll(subject, "_", " ")
}
