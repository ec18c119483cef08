package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

var errDiskFull = errors.New("disk full")

// flakyKV wraps a KV and fails writes while failWrites is set.
type flakyKV struct {
	store.KV
	mu         sync.Mutex
	failWrites bool
}

func (f *flakyKV) Update(ctx context.Context, fn func(store.Txn) error) error {
	f.mu.Lock()
	fail := f.failWrites
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.KV.Update(ctx, fn)
}

func (f *flakyKV) setFailWrites(v bool) {
	f.mu.Lock()
	f.failWrites = v
	f.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// setupTestStore opens an in-memory Badger store behind a flakyKV.
func setupTestStore(t *testing.T) (*store.Store, *flakyKV) {
	t.Helper()

	kv, err := store.OpenBadger("", discardLogger())
	require.NoError(t, err)

	flaky := &flakyKV{KV: kv}
	st := store.New(flaky, discardLogger())
	t.Cleanup(func() { _ = st.Close() })

	return st, flaky
}

// testClock is a settable clock for services.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupGoalsService(t *testing.T, clock *testClock) (*GoalsService, *flakyKV) {
	t.Helper()
	st, kv := setupTestStore(t)
	svc := NewGoalsService(st, validation.New(), GoalsOptions{Location: time.UTC}, discardLogger())
	svc.now = clock.Now
	return svc, kv
}
