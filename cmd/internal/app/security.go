package app

import (
	"errors"

	"sorthub/cmd/security/token"
)

// ValidateSecurityConfig enforces the startup security policy.
//
// Fail-fast: a deployment that asks for HMAC-keyed tokens must not silently
// fall back to plain digests.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireTokenHMAC {
		return nil
	}

	// Minimum 32 bytes for an HMAC-SHA256 secret, measured in bytes because
	// the key is used as raw bytes.
	if _, err := token.HMACKeyFromEnv(32); err != nil {
		switch {
		case errors.Is(err, token.ErrHMACKeyMissing):
			return errors.New("security policy: SORTHUB_REQUIRE_TOKEN_HMAC=true but SORTHUB_TOKEN_HMAC_KEY is missing")
		case errors.Is(err, token.ErrHMACKeyTooShort):
			return errors.New("security policy: SORTHUB_REQUIRE_TOKEN_HMAC=true but SORTHUB_TOKEN_HMAC_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}

	if !token.HMACEnabled() {
		return errors.New("security policy: SORTHUB_REQUIRE_TOKEN_HMAC=true but token issuance is not in HMAC mode")
	}

	return nil
}
