package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ForUser returns a stable fingerprint for an authenticated user.
func ForUser(userID string) string {
	return "user:" + userID
}

// ForAnonymous derives a fingerprint from the caller's IP and user agent.
// The raw values are never stored.
func ForAnonymous(ip, userAgent string) string {
	raw := strings.TrimSpace(ip) + ":" + strings.TrimSpace(userAgent)
	sum := sha256.Sum256([]byte(raw))
	return "anon:" + hex.EncodeToString(sum[:])
}
