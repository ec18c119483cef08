package domain

import "time"

// BlogPost is an editorial note written by an admin.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"author_id,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStats summarizes a reader for their profile.
type UserStats struct {
	BooksRead      int        `json:"books_read"`
	PagesRead      int        `json:"pages_read"`
	ReviewsWritten int        `json:"reviews_written"`
	CurrentStreak  int        `json:"current_streak"`
	Shelf          ShelfStats `json:"shelf"`
}
