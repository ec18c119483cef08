package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/recommend"
	"github.com/ohmyreads/ohmyreads-server/internal/search"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

// testEnvelope mirrors the response envelope with typed data.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func decodeEnvelope[T any](t *testing.T, body *bytes.Buffer) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body.Bytes(), &env), body.String())
	return env
}

// fakeCatalog answers every catalog call with canned books.
type fakeCatalog struct{}

func fakeBooks(prefix string, n int) []domain.Book {
	books := make([]domain.Book, n)
	for i := range books {
		books[i] = domain.Book{
			ID:        prefix + "-" + string(rune('a'+i)),
			Title:     prefix + " book",
			Author:    "Catalog Author",
			PageCount: 200,
		}
	}
	return books
}

func (fakeCatalog) Name() string { return "Open Library" }

func (fakeCatalog) Search(_ context.Context, query string) ([]domain.Book, error) {
	return fakeBooks("search-"+query, 5), nil
}

func (fakeCatalog) Curated(context.Context) ([]domain.Book, error) { return fakeBooks("curated", 3), nil }

func (fakeCatalog) Community(context.Context) ([]domain.Book, error) {
	return fakeBooks("community", 2), nil
}

func (fakeCatalog) Trends(context.Context) ([]domain.Book, error) { return fakeBooks("trending", 4), nil }

func (fakeCatalog) ByGenre(_ context.Context, genre string) ([]domain.Book, error) {
	return fakeBooks("genre-"+genre, 8), nil
}

func (fakeCatalog) Subject(_ context.Context, subject string, limit int) ([]domain.Book, error) {
	return fakeBooks("subject-"+subject, limit), nil
}

type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	kv, err := store.OpenBadger("", logger)
	require.NoError(t, err)
	st := store.New(kv, logger)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewShelfIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{1}, 32), time.Hour)
	require.NoError(t, err)

	v := validation.New()
	catalog := fakeCatalog{}
	router := recommend.NewRouter(recommend.Options{Source: recommend.SourceCatalog}, nil, catalog, logger)
	goalsSvc := service.NewGoalsService(st, v, service.GoalsOptions{Location: time.UTC}, logger)
	shelfSvc := service.NewShelfService(st, goalsSvc, index, v, logger)
	reviewSvc := service.NewReviewService(st, v, logger)

	services := &Services{
		Session:   service.NewSessionService(st, tokens, v, logger),
		Goals:     goalsSvc,
		Shelf:     shelfSvc,
		Reviews:   reviewSvc,
		Blog:      service.NewBlogService(st, v, logger),
		Profile:   service.NewProfileService(goalsSvc, reviewSvc, shelfSvc),
		Concierge: service.NewConciergeService(nil, catalog, service.ConciergeOptions{RuleSource: router.SourceInfo()}, logger),
		Recommend: router,
	}

	_, err = services.Session.EnsureAdmin(context.Background(), "Admin", testPassword)
	require.NoError(t, err)

	srv := NewServer(st, index, services, tokens, opts, logger)
	t.Cleanup(srv.Close)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.API()),
		tokens: tokens,
	}
}

// testPassword is shared by every reader the API tests sign in, including
// the provisioned "Admin" account.
const testPassword = "correct horse battery"

// login signs in by name and returns the bearer header.
func (ts *testServer) login(t *testing.T, name string) (header string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/session", map[string]any{"name": name, "password": testPassword})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[service.SessionResponse](t, resp.Body)
	return "Authorization: Bearer " + env.Data.AccessToken, env.Data.User.ID
}
