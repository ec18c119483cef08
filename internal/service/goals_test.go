package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

var day1 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func TestGoalsService_DefaultsWithoutWriting(t *testing.T) {
	svc, _ := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	g, err := svc.Get(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReadingGoals(), *g)

	_, err = svc.store.Goals.Get(ctx, "usr_a")
	assert.Error(t, err, "reading defaults must not create a record")
}

func TestGoalsService_ExampleScenario(t *testing.T) {
	clock := newTestClock(day1)
	svc, _ := setupGoalsService(t, clock)
	ctx := context.Background()

	_, err := svc.UpdateGoals(ctx, "usr_a", UpdateGoalsRequest{PagesPerDay: 30, BooksPerYear: 12})
	require.NoError(t, err)

	g, err := svc.LogReading(ctx, "usr_a", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, g.TodayPagesRead)
	assert.Equal(t, 1, g.CurrentStreak)

	p, err := svc.GetProgress(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 33, p.DailyPercent)

	clock.Advance(3 * time.Hour)
	g, err = svc.LogReading(ctx, "usr_a", 25)
	require.NoError(t, err)
	assert.Equal(t, 35, g.TodayPagesRead)
	assert.Equal(t, 1, g.CurrentStreak)

	p, err = svc.GetProgress(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 100, p.DailyPercent)
	assert.True(t, p.GoalMet)

	clock.Advance(48 * time.Hour)
	g, err = svc.Get(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 0, g.CurrentStreak)
	assert.Equal(t, 0, g.TodayPagesRead)
	assert.Equal(t, 1, g.LongestStreak)
	assert.Equal(t, 35, g.YearlyPagesRead)
}

func TestGoalsService_StreakAcrossDays(t *testing.T) {
	clock := newTestClock(day1)
	svc, _ := setupGoalsService(t, clock)
	ctx := context.Background()

	for range 3 {
		_, err := svc.LogReading(ctx, "usr_a", 5)
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	g, err := svc.Get(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 3, g.CurrentStreak, "yesterday's read keeps the streak alive")
	assert.Equal(t, 3, g.LongestStreak)
}

func TestGoalsService_CompleteBookAndYearlyProgress(t *testing.T) {
	svc, _ := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	for range 3 {
		_, err := svc.CompleteBook(ctx, "usr_a")
		require.NoError(t, err)
	}

	p, err := svc.GetProgress(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 25, p.YearlyPercent)
}

func TestGoalsService_Validation(t *testing.T) {
	svc, _ := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	_, err := svc.LogReading(ctx, "usr_a", 0)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.LogReading(ctx, "usr_a", -5)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdateGoals(ctx, "usr_a", UpdateGoalsRequest{PagesPerDay: 0, BooksPerYear: 12})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Details, "target_pages_per_day")
}

func TestGoalsService_UpdateKeepsCounters(t *testing.T) {
	svc, _ := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	_, err := svc.LogReading(ctx, "usr_a", 40)
	require.NoError(t, err)

	g, err := svc.UpdateGoals(ctx, "usr_a", UpdateGoalsRequest{PagesPerDay: 50, BooksPerYear: 24})
	require.NoError(t, err)
	assert.Equal(t, 50, g.TargetPagesPerDay)
	assert.Equal(t, 24, g.TargetBooksPerYear)
	assert.Equal(t, 40, g.TodayPagesRead)
	assert.Equal(t, 1, g.CurrentStreak)
}

func TestGoalsService_Reset(t *testing.T) {
	svc, _ := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	_, err := svc.LogReading(ctx, "usr_a", 40)
	require.NoError(t, err)

	g, err := svc.Reset(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReadingGoals(), *g)

	g, err = svc.Get(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 0, g.TodayPagesRead)
	assert.Nil(t, g.LastReadDate)
}

func TestGoalsService_ConfiguredDefaults(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewGoalsService(st, validation.New(), GoalsOptions{PagesPerDay: 50, BooksPerYear: 20}, discardLogger())

	g, err := svc.Get(context.Background(), "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 50, g.TargetPagesPerDay)
	assert.Equal(t, 20, g.TargetBooksPerYear)
}

func TestGoalsService_PersistenceFailureSurfaces(t *testing.T) {
	svc, kv := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	kv.setFailWrites(true)

	_, err := svc.LogReading(ctx, "usr_a", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	assert.ErrorIs(t, err, domainerrors.ErrInternal)

	_, err = svc.Reset(ctx, "usr_a")
	assert.ErrorIs(t, err, errDiskFull)

	kv.setFailWrites(false)
	g, err := svc.Get(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 0, g.TodayPagesRead, "failed write must not be visible")
}

func TestGoalsService_ConcurrentLogsAreSerialized(t *testing.T) {
	svc, _ := setupGoalsService(t, newTestClock(day1))
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.LogReading(ctx, "usr_a", 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	g, err := svc.Get(ctx, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 2*writers, g.TodayPagesRead)
	assert.Equal(t, 1, g.CurrentStreak)
	assert.Zero(t, svc.locks.len())
}
