package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory      = 64 * 1024
	argonTime        = 3
	argonThreads     = 4
	argonSaltLength  = 16
	argonKeyLength   = 32
	argonHashVariant = "argon2id"

	// MaxPasswordLength bounds the work a single sign in can cause.
	MaxPasswordLength = 1024
)

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("auth: password is empty")
	// ErrPasswordTooLong is returned for passwords over MaxPasswordLength.
	ErrPasswordTooLong = errors.New("auth: password too long")
)

// HashPassword returns a PHC-formatted argon2id hash of password.
func HashPassword(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > MaxPasswordLength:
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonHashVariant, argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CheckPassword reports whether password matches encoded.
// A malformed hash never matches.
func CheckPassword(encoded, password string) bool {
	if encoded == "" || password == "" || len(password) > MaxPasswordLength {
		return false
	}

	p, err := parseHash(encoded)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key))) //nolint:gosec // key length comes from a 32 byte hash
	return subtle.ConstantTimeCompare(p.key, key) == 1
}

type argonHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// parseHash splits "$argon2id$v=19$m=65536,t=3,p=4$salt$key".
func parseHash(encoded string) (*argonHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("malformed hash")
	}
	if parts[1] != argonHashVariant {
		return nil, fmt.Errorf("unsupported hash variant %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("parse version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	h := &argonHash{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(h.key) == 0 {
		return nil, errors.New("empty key")
	}

	return h, nil
}
