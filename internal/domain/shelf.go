package domain

import "time"

// ShelfStatus is where a book sits on a user's shelf.
type ShelfStatus string

// Shelf statuses.
const (
	ShelfWantToRead ShelfStatus = "want_to_read"
	ShelfReading    ShelfStatus = "reading"
	ShelfFinished   ShelfStatus = "finished"
	ShelfDNF        ShelfStatus = "dnf"
)

// Valid reports whether s is a known status.
func (s ShelfStatus) Valid() bool {
	switch s {
	case ShelfWantToRead, ShelfReading, ShelfFinished, ShelfDNF:
		return true
	}
	return false
}

// ShelfEntry is one book on one user's shelf.
// The Book is a snapshot taken when the entry was added.
type ShelfEntry struct {
	UserID     string      `json:"user_id"`
	BookID     string      `json:"book_id"`
	Book       Book        `json:"book"`
	Status     ShelfStatus `json:"status"`
	Progress   int         `json:"progress"`
	TotalPages int         `json:"total_pages"`
	StartDate  *time.Time  `json:"start_date,omitempty"`
	FinishDate *time.Time  `json:"finish_date,omitempty"`
	AddedAt    time.Time   `json:"added_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// PercentComplete returns progress as a whole percentage, capped at 100.
func (e *ShelfEntry) PercentComplete() int {
	if e.TotalPages <= 0 {
		return 0
	}
	pct := e.Progress * 100 / e.TotalPages
	return min(pct, 100)
}

// ShelfStats counts a user's shelf by status.
type ShelfStats struct {
	Total      int `json:"total"`
	WantToRead int `json:"want_to_read"`
	Reading    int `json:"reading"`
	Finished   int `json:"finished"`
	DNF        int `json:"dnf"`
}
