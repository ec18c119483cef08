package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

func TestReviewModerationFlow(t *testing.T) {
	ts := setupTestServer(t, Options{})
	author, _ := ts.login(t, "Le Guin Fan")
	other, _ := ts.login(t, "Someone Else")
	admin, _ := ts.login(t, "Admin")

	resp := ts.api.Post("/api/v1/books/ol-earthsea/reviews", author, map[string]any{
		"book_title": "A Wizard of Earthsea",
		"rating":     5,
		"comment":    "Timeless.",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[domain.Review](t, resp.Body).Data
	assert.Equal(t, domain.ReviewPending, created.Status)
	assert.Equal(t, "Le Guin Fan", created.UserName)

	// Pending reviews are visible to their author only.
	resp = ts.api.Get("/api/v1/books/ol-earthsea/reviews")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews)

	resp = ts.api.Get("/api/v1/books/ol-earthsea/reviews", author)
	assert.Len(t, decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews, 1)

	// Only admins see the queue and moderate.
	resp = ts.api.Get("/api/v1/admin/reviews/pending", other)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope[any](t, resp.Body).Code)

	resp = ts.api.Get("/api/v1/admin/reviews/pending", admin)
	require.Equal(t, http.StatusOK, resp.Code)
	queue := decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews
	require.Len(t, queue, 1)
	assert.Equal(t, created.ID, queue[0].ID)

	resp = ts.api.Post("/api/v1/admin/reviews/"+created.ID+"/moderate", other, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Post("/api/v1/admin/reviews/"+created.ID+"/moderate", admin, map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.ReviewApproved, decodeEnvelope[domain.Review](t, resp.Body).Data.Status)

	resp = ts.api.Post("/api/v1/admin/reviews/"+created.ID+"/moderate", admin, map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Approved reviews are public and appear in the feed.
	resp = ts.api.Get("/api/v1/books/ol-earthsea/reviews")
	assert.Len(t, decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews, 1)

	resp = ts.api.Get("/api/v1/reviews/feed?limit=5")
	require.Equal(t, http.StatusOK, resp.Code)
	feed := decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews
	require.Len(t, feed, 1)
	assert.Equal(t, created.ID, feed[0].ID)

	// Only the author may delete.
	resp = ts.api.Delete("/api/v1/reviews/"+created.ID, other)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/reviews/"+created.ID, author)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/reviews/mine", author)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews)
}

func TestCreateReviewValidation(t *testing.T) {
	ts := setupTestServer(t, Options{})
	auth, _ := ts.login(t, "Critic")

	resp := ts.api.Post("/api/v1/books/ol-1/reviews", auth, map[string]any{"rating": 9, "comment": "too many stars"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = ts.api.Post("/api/v1/books/ol-1/reviews", auth, map[string]any{"rating": 3, "comment": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/books/ol-1/reviews", map[string]any{"rating": 3, "comment": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestModerationNeedsProvisionedAdmin(t *testing.T) {
	ts := setupTestServer(t, Options{})
	author, _ := ts.login(t, "Victim")

	resp := ts.api.Post("/api/v1/books/ol-dune/reviews", author, map[string]any{
		"rating":  4,
		"comment": "Spice.",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[domain.Review](t, resp.Body).Data

	// Claiming the admin name without its password fails.
	resp = ts.api.Post("/api/v1/auth/session", map[string]any{"name": "ADMIN", "password": "guessed password"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// A fresh admin-looking name is just a reader.
	impostor, _ := ts.login(t, "Admin Two")
	resp = ts.api.Post("/api/v1/admin/reviews/"+created.ID+"/moderate", impostor, map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/reviews/mine", author)
	require.Equal(t, http.StatusOK, resp.Code)
	mine := decodeEnvelope[ReviewListResponse](t, resp.Body).Data.Reviews
	require.Len(t, mine, 1)
	assert.Equal(t, domain.ReviewPending, mine[0].Status)
}
