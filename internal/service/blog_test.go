package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

func setupBlogService(t *testing.T) (*BlogService, *testClock) {
	t.Helper()

	st, _ := setupTestStore(t)
	clock := newTestClock(day1)

	svc := NewBlogService(st, validation.New(), discardLogger())
	svc.now = clock.Now

	ctx := context.Background()
	for _, u := range []*domain.User{
		{ID: "usr_reader", Name: "Reader", Role: domain.RoleMember},
		{ID: "usr_editor", Name: "Editor", Role: domain.RoleAdmin},
	} {
		require.NoError(t, st.Users.Create(ctx, u.ID, u))
	}

	return svc, clock
}

func TestBlogService_AdminPublishes(t *testing.T) {
	svc, clock := setupBlogService(t)
	ctx := context.Background()

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	first, err := svc.Create(ctx, "usr_editor", CreatePostRequest{
		Title:   "  Welcome  ",
		Content: "Notes from the margins.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", first.Title)
	assert.Equal(t, "Editor", first.Author)
	assert.Equal(t, "usr_editor", first.AuthorID)
	assert.True(t, strings.HasPrefix(first.ID, "pst_"))
	assert.Equal(t, day1, first.CreatedAt)

	clock.Advance(time.Hour)
	second, err := svc.Create(ctx, "usr_editor", CreatePostRequest{
		Title:    "Summer list",
		Content:  "Ten books for the beach.",
		ImageURL: "https://example.com/beach.jpg",
	})
	require.NoError(t, err)

	posts, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestBlogService_MembersCannotWrite(t *testing.T) {
	svc, _ := setupBlogService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "usr_reader", CreatePostRequest{Title: "Hi", Content: "Me too"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.Create(ctx, "usr_unknown", CreatePostRequest{Title: "Hi", Content: "Me too"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	post, err := svc.Create(ctx, "usr_editor", CreatePostRequest{Title: "Keep", Content: "Stays."})
	require.NoError(t, err)

	err = svc.Delete(ctx, "usr_reader", post.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestBlogService_Delete(t *testing.T) {
	svc, _ := setupBlogService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "usr_editor", CreatePostRequest{Title: "Gone soon", Content: "Bye."})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "usr_editor", post.ID))

	err = svc.Delete(ctx, "usr_editor", post.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestBlogService_Validation(t *testing.T) {
	svc, _ := setupBlogService(t)

	for _, req := range []CreatePostRequest{
		{Title: "", Content: "Body"},
		{Title: "Title", Content: "   "},
		{Title: "Title", Content: "Body", ImageURL: "not a url"},
		{Title: strings.Repeat("t", 201), Content: "Body"},
	} {
		_, err := svc.Create(context.Background(), "usr_editor", req)
		assert.ErrorIs(t, err, domainerrors.ErrValidation, "request %+v", req)
	}
}
