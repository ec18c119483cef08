package auth

import (
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

// AccessClaims are the claims carried in a session token.
// v4.local tokens are encrypted, so claims are unreadable without the key.
type AccessClaims struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin reports whether the token was issued to an admin.
func (c *AccessClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
