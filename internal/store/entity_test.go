package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/store/storetest"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := store.OpenBadger(t.TempDir(), nil)
	require.NoError(t, err)
	s := store.New(kv, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerKVContract(t *testing.T) {
	kv, err := store.OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	storetest.RunKVContract(t, kv)
}

func TestEntity_CreateGetDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := &domain.User{ID: "usr_1", Name: "Ada Lovelace", Role: domain.RoleMember, CreatedAt: time.Now()}
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	got, err := s.Users.Get(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)

	err = s.Users.Create(ctx, user.ID, user)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Users.Delete(ctx, "usr_1"))
	_, err = s.Users.Get(ctx, "usr_1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Idempotent.
	assert.NoError(t, s.Users.Delete(ctx, "usr_1"))
}

func TestEntity_UniqueIndexIsCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "usr_1", &domain.User{ID: "usr_1", Name: "Ada  Lovelace"}))

	got, err := s.Users.GetByIndex(ctx, "name", "ADA LOVELACE")
	require.NoError(t, err)
	assert.Equal(t, "usr_1", got.ID)

	err = s.Users.Create(ctx, "usr_2", &domain.User{ID: "usr_2", Name: "ada lovelace"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_UpdateMovesIndexes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	r := &domain.Review{ID: "rev_1", BookID: "b1", UserID: "u1", Status: domain.ReviewPending}
	require.NoError(t, s.Reviews.Create(ctx, r.ID, r))

	pending, err := s.Reviews.ListByIndex(ctx, "status", string(domain.ReviewPending))
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	r.Status = domain.ReviewApproved
	require.NoError(t, s.Reviews.Update(ctx, r.ID, r))

	pending, err = s.Reviews.ListByIndex(ctx, "status", string(domain.ReviewPending))
	require.NoError(t, err)
	assert.Empty(t, pending)

	approved, err := s.Reviews.ListByIndex(ctx, "status", string(domain.ReviewApproved))
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "rev_1", approved[0].ID)
}

func TestEntity_UpdateMissing(t *testing.T) {
	s := setupTestStore(t)
	err := s.Reviews.Update(context.Background(), "rev_x", &domain.Review{ID: "rev_x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_ListByPrefixSkipsIndexKeys(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"b1", "b2"} {
		e := &domain.ShelfEntry{UserID: "u1", BookID: id, Status: domain.ShelfReading}
		require.NoError(t, s.Shelf.Put(ctx, store.ShelfKey("u1", id), e))
	}
	require.NoError(t, s.Shelf.Put(ctx, store.ShelfKey("u2", "b1"), &domain.ShelfEntry{UserID: "u2", BookID: "b1"}))

	entries, err := s.Shelf.List(ctx, store.ShelfPrefix("u1"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, s.Reviews.Create(ctx, "rev_1", &domain.Review{ID: "rev_1", BookID: "b1"}))
	all, err := s.Reviews.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEntity_CanceledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Goals.Get(ctx, "u1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane doe", store.NormalizeName("  Jane   DOE "))
}
