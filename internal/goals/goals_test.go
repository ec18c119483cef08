package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

func day(d, hour int) time.Time {
	return time.Date(2025, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestLogReading_FirstEverLogStartsStreak(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 10}, day(1, 9))

	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 1, state.LongestStreak)
	assert.Equal(t, 10, state.TodayPagesRead)
	assert.Equal(t, 10, state.YearlyPagesRead)
	assert.True(t, day(1, 9).Equal(*state.LastReadDate))
}

func TestLogReading_SameDayDoesNotReincrementStreak(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 10}, day(1, 9))
	state = Reduce(state, LogReading{Pages: 10}, day(1, 21))

	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 20, state.TodayPagesRead)
	assert.Equal(t, 20, state.YearlyPagesRead)
}

func TestLogReading_ConsecutiveDaysExtendStreak(t *testing.T) {
	state := domain.DefaultReadingGoals()
	for d := 1; d <= 4; d++ {
		state = Reduce(state, LogReading{Pages: 5}, day(d, 23))
	}

	assert.Equal(t, 4, state.CurrentStreak)
	assert.Equal(t, 4, state.LongestStreak)
	assert.Equal(t, 5, state.TodayPagesRead)
	assert.Equal(t, 20, state.YearlyPagesRead)
}

func TestLogReading_GapRestartsStreakAtOne(t *testing.T) {
	state := domain.DefaultReadingGoals()
	state = Reduce(state, LogReading{Pages: 5}, day(1, 8))
	state = Reduce(state, LogReading{Pages: 5}, day(2, 8))
	state = Reduce(state, LogReading{Pages: 5}, day(5, 8))

	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 2, state.LongestStreak)
}

func TestNormalize_MissedDayClearsStreak(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 12}, day(1, 8))

	got := Normalize(state, day(3, 8))

	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 0, got.TodayPagesRead)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, 12, got.YearlyPagesRead)
}

func TestNormalize_YesterdayKeepsStreakButClearsToday(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 12}, day(1, 23))

	got := Normalize(state, day(2, 0))

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 0, got.TodayPagesRead)
}

func TestNormalize_SameDayUnchanged(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 12}, day(1, 1))
	assert.Equal(t, state, Normalize(state, day(1, 23)))
}

func TestNormalize_NoReadsIsIdentity(t *testing.T) {
	state := domain.DefaultReadingGoals()
	assert.Equal(t, state, Normalize(state, day(9, 9)))
}

func TestDayBoundariesUseNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on the 1st is 05:00 on the 2nd in Tokyo.
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 5}, day(1, 20).In(tokyo))

	// 10:00 on the 2nd in Tokyo is the same day.
	next := time.Date(2025, time.March, 2, 10, 0, 0, 0, tokyo)
	state = Reduce(state, LogReading{Pages: 5}, next)

	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 10, state.TodayPagesRead)
}

func TestCompleteBook(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), CompleteBook{}, day(1, 1))
	state = Reduce(state, CompleteBook{}, day(1, 2))

	assert.Equal(t, 2, state.YearlyBooksRead)
	assert.Equal(t, 0, state.CurrentStreak)
}

func TestUpdateTargets_LeavesCounters(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 40}, day(1, 1))
	state = Reduce(state, UpdateTargets{PagesPerDay: 50, BooksPerYear: 24}, day(1, 2))

	assert.Equal(t, 50, state.TargetPagesPerDay)
	assert.Equal(t, 24, state.TargetBooksPerYear)
	assert.Equal(t, 40, state.TodayPagesRead)
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestReset(t *testing.T) {
	state := Reduce(domain.DefaultReadingGoals(), LogReading{Pages: 40}, day(1, 1))
	state = Reduce(state, Reset{Defaults: domain.DefaultReadingGoals()}, day(1, 2))

	assert.Equal(t, domain.DefaultReadingGoals(), state)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		state domain.ReadingGoals
		want  domain.GoalProgress
	}{
		{
			name:  "rounds to nearest",
			state: domain.ReadingGoals{TargetPagesPerDay: 30, TargetBooksPerYear: 12, TodayPagesRead: 10, YearlyBooksRead: 1},
			want:  domain.GoalProgress{DailyPercent: 33, YearlyPercent: 8},
		},
		{
			name:  "caps at 100",
			state: domain.ReadingGoals{TargetPagesPerDay: 30, TargetBooksPerYear: 12, TodayPagesRead: 95, YearlyBooksRead: 40, CurrentStreak: 3},
			want:  domain.GoalProgress{DailyPercent: 100, YearlyPercent: 100, StreakDays: 3, GoalMet: true},
		},
		{
			name:  "zero targets do not divide",
			state: domain.ReadingGoals{TodayPagesRead: 5},
			want:  domain.GoalProgress{GoalMet: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.state))
		})
	}
}

func TestLongestStreakNeverDecreases(t *testing.T) {
	state := domain.DefaultReadingGoals()
	longest := 0
	schedule := []int{1, 2, 3, 7, 8, 20, 21, 22, 23, 24, 30}
	for _, d := range schedule {
		for _, action := range []Action{LogReading{Pages: 3}, CompleteBook{}, UpdateTargets{PagesPerDay: 10, BooksPerYear: 5}} {
			state = Reduce(state, action, day(d, 12))
			assert.GreaterOrEqual(t, state.LongestStreak, longest)
			assert.GreaterOrEqual(t, state.LongestStreak, state.CurrentStreak)
			longest = state.LongestStreak
		}
		later := Normalize(state, day(d+2, 12))
		assert.Equal(t, longest, later.LongestStreak)
	}
	assert.Equal(t, 5, longest)
}

func TestExampleScenario(t *testing.T) {
	state := domain.DefaultReadingGoals()

	state = Reduce(state, LogReading{Pages: 10}, day(1, 9))
	p := Progress(state)
	assert.Equal(t, 10, state.TodayPagesRead)
	assert.Equal(t, 33, p.DailyPercent)
	assert.Equal(t, 1, state.CurrentStreak)

	state = Reduce(state, LogReading{Pages: 25}, day(1, 18))
	p = Progress(state)
	assert.Equal(t, 35, state.TodayPagesRead)
	assert.Equal(t, 100, p.DailyPercent)
	assert.True(t, p.GoalMet)
	assert.Equal(t, 1, state.CurrentStreak)

	state = Normalize(state, day(3, 9))
	assert.Equal(t, 0, state.CurrentStreak)
	assert.Equal(t, 0, state.TodayPagesRead)
}
