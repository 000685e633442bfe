package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// APIKeyPrefix marks keys issued by this service.
const APIKeyPrefix = "bk_live_"

// GenerateAPIKey creates a new key and its SHA256 hash. The raw key is
// shown to the caller once; only the hash is stored.
func GenerateAPIKey() (string, string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	realKey := fmt.Sprintf("%s%s", APIKeyPrefix, hex.EncodeToString(bytes))
	hash := sha256.Sum256([]byte(realKey))

	return realKey, hex.EncodeToString(hash[:]), nil
}

// HashKey returns the SHA256 hex digest used to look a key up.
func HashKey(providedKey string) string {
	hash := sha256.Sum256([]byte(providedKey))
	return hex.EncodeToString(hash[:])
}
