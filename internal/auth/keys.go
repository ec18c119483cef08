// Package auth issues and verifies session tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const keyFileName = "session.key"

// ParseKey decodes a hex-encoded 32-byte key.
func ParseKey(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != keyBytesSize*2 {
		return nil, fmt.Errorf("invalid session key length: expected %d hex chars, got %d", keyBytesSize*2, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid session key format: not valid hex: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey returns the session key stored in <dataPath>/session.key,
// creating it with owner-only permissions on first use.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- key path is derived from the configured data path
	if raw, err := os.ReadFile(keyPath); err == nil {
		return ParseKey(string(raw))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save session key: %w", err)
	}

	return key, nil
}
