package domain

import "time"

// Default reading targets for a user who has never set goals.
const (
	DefaultPagesPerDay  = 30
	DefaultBooksPerYear = 12
)

// Page limits shared by goal logging and shelf progress.
const (
	// MaxPagesPerLog is the most pages one reading session may log.
	MaxPagesPerLog = 10000
	// MaxBookPages bounds a book's page count and shelf progress.
	MaxBookPages = 100000
)

// ReadingGoals is a user's persisted goal and streak record.
//
// LongestStreak is never below CurrentStreak. The yearly counters accumulate
// until the record is reset; nothing rolls them over on January 1.
type ReadingGoals struct {
	TargetPagesPerDay  int        `json:"target_pages_per_day"`
	TargetBooksPerYear int        `json:"target_books_per_year"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastReadDate       *time.Time `json:"last_read_date"`
	TodayPagesRead     int        `json:"today_pages_read"`
	YearlyBooksRead    int        `json:"yearly_books_read"`
	YearlyPagesRead    int        `json:"yearly_pages_read"`
}

// DefaultReadingGoals returns the record a new user starts with.
func DefaultReadingGoals() ReadingGoals {
	return ReadingGoals{
		TargetPagesPerDay:  DefaultPagesPerDay,
		TargetBooksPerYear: DefaultBooksPerYear,
	}
}

// GoalProgress is derived from ReadingGoals and never stored.
type GoalProgress struct {
	DailyPercent  int  `json:"daily_percent"`
	YearlyPercent int  `json:"yearly_percent"`
	StreakDays    int  `json:"streak_days"`
	GoalMet       bool `json:"goal_met"`
}
