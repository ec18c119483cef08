package domain

import "time"

// Role represents the user's permission level.
type Role string

const (
	// RoleAdmin can moderate reviews.
	RoleAdmin Role = "admin"
	// RoleMember is a regular reader.
	RoleMember Role = "member"
)

// User is a reader account, identified by a unique display name.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, cleared by Public
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Public returns a copy safe to send to clients.
func (u *User) Public() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}

// IsAdmin returns true if the user can moderate.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
