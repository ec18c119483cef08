package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// claimsKey is the context key for verified token claims.
const claimsKey ctxKey = "claims"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.AccessClaims, error)
}

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(claimsKey).(*auth.AccessClaims)
	if !ok || claims.UserID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}

// optionalUserID returns the user ID if the request is authenticated.
func optionalUserID(ctx context.Context) string {
	userID, _ := GetUserID(ctx)
	return userID
}

// RequireAdmin validates the user is authenticated with an admin token.
// Services re-check the stored role before acting.
func RequireAdmin(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(claimsKey).(*auth.AccessClaims)
	if !ok || claims.UserID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	if !claims.IsAdmin() {
		return "", domainerrors.Forbidden("Admin access required")
	}
	return claims.UserID, nil
}

func setClaims(ctx context.Context, claims *auth.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// authMiddleware returns a middleware that validates Bearer tokens and stores
// the claims in context. Missing or invalid tokens continue without a user;
// handlers use GetUserID to reject anonymous requests.
func authMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setClaims(r.Context(), claims)))
		})
	}
}
