package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// CalculateStringSHA256 computes the SHA-256 hash of a string.
func CalculateStringSHA256(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ShortFingerprint returns the first 12 hex chars of the SHA-256 of content.
// Used to correlate identical prompts across log lines without logging the prompt itself.
func ShortFingerprint(content string) string {
	return CalculateStringSHA256(content)[:12]
}
