package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

func TestBlogFlow(t *testing.T) {
	ts := setupTestServer(t, Options{})
	reader, _ := ts.login(t, "Reader")
	admin, _ := ts.login(t, "Admin")

	resp := ts.api.Get("/api/v1/blog")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[BlogListResponse](t, resp.Body).Data.Posts)

	post := map[string]any{"title": "Winter reads", "content": "Long books for long nights."}

	resp = ts.api.Post("/api/v1/admin/blog", reader, post)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Post("/api/v1/admin/blog", post)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/admin/blog", admin, post)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[domain.BlogPost](t, resp.Body).Data
	assert.Equal(t, "Admin", created.Author)

	resp = ts.api.Get("/api/v1/blog")
	require.Equal(t, http.StatusOK, resp.Code)
	posts := decodeEnvelope[BlogListResponse](t, resp.Body).Data.Posts
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)

	resp = ts.api.Delete("/api/v1/admin/blog/"+created.ID, reader)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/admin/blog/"+created.ID, admin)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/admin/blog/"+created.ID, admin)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCurrentUserStats(t *testing.T) {
	ts := setupTestServer(t, Options{})
	auth, _ := ts.login(t, "Stats Reader")

	addBook(t, ts, auth, "ol-piranesi", "Piranesi", 245)

	resp := ts.api.Patch("/api/v1/shelf/ol-piranesi/progress", auth, map[string]any{"progress": 245})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/books/ol-piranesi/reviews", auth, map[string]any{"rating": 5, "comment": "The House is kind."})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/users/me/stats", auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	stats := decodeEnvelope[domain.UserStats](t, resp.Body).Data
	assert.Equal(t, 1, stats.BooksRead)
	assert.Equal(t, 245, stats.PagesRead)
	assert.Equal(t, 1, stats.ReviewsWritten)
	assert.Equal(t, 1, stats.Shelf.Finished)
}
