package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// HMACEnvKey is the env var name for the token HMAC secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	HMACEnvKey = "SORTHUB_TOKEN_HMAC_KEY"
)

// Issue mints a token for userID at the given instant.
//
// The digest input includes nanosecond time, so two calls for the same user
// id yield different tokens. The result is base64 URL-safe without padding.
func Issue(userID int64, now time.Time) string {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	material := fmt.Sprintf("%d-%d", userID, now.UnixNano())

	var sum [sha256.Size]byte
	if key := strings.TrimSpace(os.Getenv(HMACEnvKey)); key != "" {
		m := hmac.New(sha256.New, []byte(key))
		_, _ = m.Write([]byte(material))
		copy(sum[:], m.Sum(nil))
	} else {
		sum = sha256.Sum256([]byte(material))
	}

	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// HMACKeyFromEnv returns the configured HMAC key bytes (trimmed), enforcing a
// minimum byte length.
// If the env var is missing/blank -> ErrHMACKeyMissing.
// If too short -> ErrHMACKeyTooShort.
func HMACKeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(HMACEnvKey))
	if raw == "" {
		return nil, ErrHMACKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrHMACKeyTooShort
	}
	return b, nil
}

// HMACEnabled reports whether the env key is present (non-empty after trim).
// Note: this does not enforce minimum length. Use HMACKeyFromEnv for policy checks.
func HMACEnabled() bool {
	return strings.TrimSpace(os.Getenv(HMACEnvKey)) != ""
}
