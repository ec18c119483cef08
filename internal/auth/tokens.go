package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/id"
)

const (
	tokenIssuer   = "ohmyreads-server"
	tokenAudience = "ohmyreads-client"

	// PASETO v4 symmetric keys are 256 bits.
	keyBytesSize = 32

	prefixToken = "tok"
)

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	symmetricKey        paseto.V4SymmetricKey
	accessTokenDuration time.Duration
	now                 func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, accessDuration time.Duration) (*TokenService, error) {
	if len(key) != keyBytesSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyBytesSize, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:        symmetricKey,
		accessTokenDuration: accessDuration,
		now:                 time.Now,
	}, nil
}

// GenerateAccessToken creates an encrypted access token for the user.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.accessTokenDuration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)

	tokenID, err := id.Generate(prefixToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("user_id", user.ID)
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("name", user.Name)
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("role", user.Role)

	return token.V4Encrypt(s.symmetricKey, nil), expires, nil
}

// VerifyAccessToken decrypts and validates a token.
// Expired tokens yield errors.ErrTokenExpired; anything else unusable yields
// errors.ErrUnauthorized.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, errors.Unauthorized("invalid token").WithCause(err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, errors.Unauthorized("invalid token claims").WithCause(err)
	}

	now := s.now()
	if !claims.Expiration.IsZero() && !now.Before(claims.Expiration) {
		return nil, errors.TokenExpired("session expired")
	}
	if now.Before(claims.NotBefore) {
		return nil, errors.Unauthorized("token not yet valid")
	}

	return &claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessTokenDuration
}
