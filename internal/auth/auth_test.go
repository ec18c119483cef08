package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/errors"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewTokenService_KeyLength(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)

	svc, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.AccessTokenDuration())
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)

	user := &domain.User{ID: "usr_abc", Name: "Ada", Role: domain.RoleAdmin}
	token, expires, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_abc", claims.UserID)
	assert.Equal(t, "usr_abc", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
	assert.True(t, claims.IsAdmin())
	assert.True(t, strings.HasPrefix(claims.TokenID, "tok_"))
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService(testKey, time.Minute)
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.GenerateAccessToken(&domain.User{ID: "usr_a", Role: domain.RoleMember})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuer, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)
	token, _, err := issuer.GenerateAccessToken(&domain.User{ID: "usr_a"})
	require.NoError(t, err)

	other, err := NewTokenService([]byte("fedcba9876543210fedcba9876543210"), time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = issuer.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestParseKey(t *testing.T) {
	_, err := ParseKey("abc")
	assert.Error(t, err)

	_, err = ParseKey(strings.Repeat("zz", 32))
	assert.Error(t, err)

	key, err := ParseKey(" " + strings.Repeat("0f", 32) + "\n")
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
