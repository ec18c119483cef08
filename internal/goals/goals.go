// Package goals implements the reading goal and streak rules.
//
// Everything here is a pure function of (state, action, now). Callers load the
// record, call Reduce, and persist the result; this package never reads the
// clock or touches storage. Calendar days are taken in now's location.
//
// Streak states:
//
//	no streak (0) --log, no prior day or gap > 1 day--> streak(1)
//	streak(n)     --first log of a day after yesterday--> streak(n+1)
//	streak(n)     --Normalize after a missed day--> no streak (0)
package goals

import (
	"math"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// Action is a mutation of a ReadingGoals record.
type Action interface {
	apply(state domain.ReadingGoals, now time.Time) domain.ReadingGoals
}

// LogReading records pages read now. Pages must already be validated > 0.
type LogReading struct {
	Pages int
}

// CompleteBook counts one finished book toward the yearly target.
type CompleteBook struct{}

// UpdateTargets overwrites the daily and yearly targets. Counters are untouched.
type UpdateTargets struct {
	PagesPerDay  int
	BooksPerYear int
}

// Reset returns the record to defaults.
type Reset struct {
	Defaults domain.ReadingGoals
}

// Reduce normalizes state for now and applies action.
func Reduce(state domain.ReadingGoals, action Action, now time.Time) domain.ReadingGoals {
	return action.apply(Normalize(state, now), now)
}

// Normalize applies day-rollover to a stored record as of now.
// If the last read was on an earlier day, today's pages reset to zero; if it
// was also before yesterday, the current streak resets to zero.
func Normalize(state domain.ReadingGoals, now time.Time) domain.ReadingGoals {
	if state.LastReadDate == nil {
		return state
	}
	last := *state.LastReadDate
	if !sameDay(last, now) {
		state.TodayPagesRead = 0
		if !isYesterday(last, now) {
			state.CurrentStreak = 0
		}
	}
	return state
}

func (a LogReading) apply(state domain.ReadingGoals, now time.Time) domain.ReadingGoals {
	firstReadToday := state.LastReadDate == nil || !sameDay(*state.LastReadDate, now)

	if firstReadToday {
		if state.LastReadDate != nil && isYesterday(*state.LastReadDate, now) {
			state.CurrentStreak++
		} else {
			state.CurrentStreak = 1
		}
		state.LongestStreak = max(state.LongestStreak, state.CurrentStreak)
	}

	state.TodayPagesRead += a.Pages
	state.YearlyPagesRead += a.Pages
	at := now
	state.LastReadDate = &at
	return state
}

func (CompleteBook) apply(state domain.ReadingGoals, _ time.Time) domain.ReadingGoals {
	state.YearlyBooksRead++
	return state
}

func (a UpdateTargets) apply(state domain.ReadingGoals, _ time.Time) domain.ReadingGoals {
	state.TargetPagesPerDay = a.PagesPerDay
	state.TargetBooksPerYear = a.BooksPerYear
	return state
}

func (a Reset) apply(_ domain.ReadingGoals, _ time.Time) domain.ReadingGoals {
	return a.Defaults
}

// Progress derives completion percentages from a normalized record.
// Non-positive targets give 0 percent rather than dividing by zero.
func Progress(state domain.ReadingGoals) domain.GoalProgress {
	return domain.GoalProgress{
		DailyPercent:  percent(state.TodayPagesRead, state.TargetPagesPerDay),
		YearlyPercent: percent(state.YearlyBooksRead, state.TargetBooksPerYear),
		StreakDays:    state.CurrentStreak,
		GoalMet:       state.TodayPagesRead >= state.TargetPagesPerDay,
	}
}

func percent(done, target int) int {
	if target <= 0 {
		return 0
	}
	p := int(math.Round(float64(done) / float64(target) * 100))
	return min(p, 100)
}

// dayKey truncates t to its calendar date in loc.
func dayKey(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func sameDay(a, now time.Time) bool {
	return dayKey(a, now.Location()).Equal(dayKey(now, now.Location()))
}

func isYesterday(a, now time.Time) bool {
	loc := now.Location()
	return dayKey(a, loc).Equal(dayKey(now, loc).AddDate(0, 0, -1))
}
