// Package gemini produces book recommendations and librarian chat replies
// with Google's Gemini models.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

const librarianInstruction = "You are OhMyReads, a sophisticated, well-read, and warm librarian AI. " +
	"You love helping people find books. Keep answers concise but insightful."

var (
	// ErrNotConfigured is returned by New when no API key is available.
	ErrNotConfigured = errors.New("gemini: api key not configured")
	// ErrEmptyResponse is returned when the model produced no candidates.
	ErrEmptyResponse = errors.New("gemini: empty response")
)

// generator is the slice of the genai client the provider uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Provider.
type Options struct {
	APIKey string
	Model  string
}

// Provider answers recommendation and chat requests with a Gemini model.
type Provider struct {
	gen    generator
	model  string
	logger *slog.Logger
}

// New creates a Provider backed by the Gemini API.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Provider, error) {
	if opts.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newProvider(client.Models, opts.Model, logger), nil
}

func newProvider(gen generator, model string, logger *slog.Logger) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{gen: gen, model: model, logger: logger}
}

// Name identifies the provider in logs and source badges.
func (p *Provider) Name() string {
	return "Gemini AI"
}

// Search asks the model for five highly-rated books matching query.
func (p *Provider) Search(ctx context.Context, query string) ([]domain.Book, error) {
	prompt := fmt.Sprintf(`Find 5 highly-rated books related to this query: %q.
Prioritize books with high ratings (4.0+) and critical acclaim.
Ensure descriptions are detailed, engaging, and capture the narrative depth (approx 3 sentences).
Return a JSON array where each object has: title, author, description, rating (0-5), moods, publishedDate, pageCount, awards, series, characters.`, query)

	return p.books(ctx, "search", prompt, fullBookSchema)
}

// Curated asks for recent fiction of high literary merit.
func (p *Provider) Curated(ctx context.Context) ([]domain.Book, error) {
	books, err := p.books(ctx, "curated",
		"List 4 trending, diverse fiction books from the last 5 years that have high literary merit. Return JSON. Include awards if any.",
		curatedSchema)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Description = "A trending masterpiece selected just for you."
	}
	return books, nil
}

// Community asks for cult classics and viral hits of online book communities.
func (p *Provider) Community(ctx context.Context) ([]domain.Book, error) {
	return p.books(ctx, "community",
		"List 4 books that are considered 'Cult Classics' or 'Viral Hits' in modern online book communities "+
			"(like BookTok or Goodreads). Books that generate intense discussion and have passionate fanbases. Return JSON.",
		shortSchema)
}

// Trends asks for currently trending fiction.
func (p *Provider) Trends(ctx context.Context) ([]domain.Book, error) {
	return p.books(ctx, "trending",
		"List 4 recent popular fiction books that are currently trending. Consider New York Times bestsellers "+
			"and popular titles. Return JSON array with: title, author, description, rating (estimate), moods.",
		shortSchema)
}

// Chat continues a librarian conversation and returns the model's reply.
func (p *Provider) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.ChatRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := p.gen.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(librarianInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// books runs a structured-output prompt and maps the items to Books.
func (p *Provider) books(ctx context.Context, kind, prompt string, schema *genai.Schema) ([]domain.Book, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := p.gen.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", kind, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini %s: %w", kind, ErrEmptyResponse)
	}

	var items []bookItem
	if err := json.Unmarshal([]byte(resp.Text()), &items); err != nil {
		return nil, fmt.Errorf("gemini %s: parse response: %w", kind, err)
	}

	p.logger.Debug("gemini books", "kind", kind, "count", len(items))

	books := make([]domain.Book, 0, len(items))
	for i, item := range items {
		books = append(books, item.toBook(kind, i))
	}
	return books, nil
}

// bookItem is one element of the model's JSON array.
type bookItem struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	Moods         []string `json:"moods"`
	PublishedDate string   `json:"publishedDate"`
	PageCount     float64  `json:"pageCount"` // models may answer 320.0
	Awards        []string `json:"awards"`
	Series        string   `json:"series"`
	Characters    []string `json:"characters"`
}

func (b bookItem) toBook(kind string, index int) domain.Book {
	moods := b.Moods
	if moods == nil {
		moods = []string{}
	}
	return domain.Book{
		ID:            kind + "-" + strconv.Itoa(index),
		Title:         b.Title,
		Author:        b.Author,
		CoverURL:      CoverURL(b.Title),
		Rating:        b.Rating,
		Moods:         moods,
		Description:   b.Description,
		PageCount:     pageCount(b.PageCount),
		PublishedDate: b.PublishedDate,
		Awards:        b.Awards,
		Series:        b.Series,
		Characters:    b.Characters,
	}
}

func pageCount(n float64) int {
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int(math.Round(math.Min(n, domain.MaxBookPages)))
}

// CoverURL returns a deterministic placeholder cover seeded by title.
func CoverURL(title string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(title) + "/300/450"
}

var (
	stringSchema = &genai.Schema{Type: genai.TypeString}
	numberSchema = &genai.Schema{Type: genai.TypeNumber}
	listSchema   = &genai.Schema{Type: genai.TypeArray, Items: stringSchema}

	fullBookSchema = arrayOf(map[string]*genai.Schema{
		"title":         stringSchema,
		"author":        stringSchema,
		"description":   stringSchema,
		"rating":        numberSchema,
		"moods":         listSchema,
		"publishedDate": stringSchema,
		"pageCount":     numberSchema,
		"awards":        listSchema,
		"series":        stringSchema,
		"characters":    listSchema,
	})

	curatedSchema = arrayOf(map[string]*genai.Schema{
		"title":      stringSchema,
		"author":     stringSchema,
		"moods":      listSchema,
		"rating":     numberSchema,
		"awards":     listSchema,
		"series":     stringSchema,
		"characters": listSchema,
	})

	shortSchema = arrayOf(map[string]*genai.Schema{
		"title":       stringSchema,
		"author":      stringSchema,
		"description": stringSchema,
		"rating":      numberSchema,
		"moods":       listSchema,
	})
)

func arrayOf(props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
		},
	}
}
