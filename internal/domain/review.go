package domain

import "time"

// ReviewStatus tracks moderation state.
type ReviewStatus string

// Review statuses.
const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is a user's rating and comment on a book.
// New reviews start pending and are visible only to their author until approved.
type Review struct {
	ID          string       `json:"id"`
	BookID      string       `json:"book_id"`
	BookTitle   string       `json:"book_title,omitempty"`
	UserID      string       `json:"user_id"`
	UserName    string       `json:"user_name"`
	UserAvatar  string       `json:"user_avatar,omitempty"`
	Rating      int          `json:"rating"`
	Comment     string       `json:"comment"`
	Status      ReviewStatus `json:"status"`
	ModeratedBy string       `json:"moderated_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// VisibleTo reports whether userID may see the review.
func (r *Review) VisibleTo(userID string) bool {
	return r.Status == ReviewApproved || r.UserID == userID
}
