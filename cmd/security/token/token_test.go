package token

import (
	"strings"
	"testing"
	"time"
)

func TestIssue_UniquePerCall(t *testing.T) {
	a := Issue(42, time.Now())
	b := Issue(42, time.Now())
	if a == b {
		t.Fatalf("two tokens for the same user must differ: %q", a)
	}
}

func TestIssue_URLSafe(t *testing.T) {
	tok := Issue(7, time.Unix(1700000000, 12345))
	if tok == "" {
		t.Fatalf("empty token")
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token is not URL-safe: %q", tok)
	}
}

func TestIssue_HMACModeChangesOutput(t *testing.T) {
	at := time.Unix(1700000000, 999)

	plain := Issue(7, at)

	t.Setenv(HMACEnvKey, strings.Repeat("k", 32))
	keyed := Issue(7, at)

	if plain == keyed {
		t.Fatalf("HMAC-keyed token must differ from unkeyed token")
	}
}

func TestHMACKeyFromEnv(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	if _, err := HMACKeyFromEnv(32); err != ErrHMACKeyMissing {
		t.Fatalf("expected ErrHMACKeyMissing, got %v", err)
	}

	t.Setenv(HMACEnvKey, "short")
	if _, err := HMACKeyFromEnv(32); err != ErrHMACKeyTooShort {
		t.Fatalf("expected ErrHMACKeyTooShort, got %v", err)
	}

	t.Setenv(HMACEnvKey, strings.Repeat("k", 32))
	key, err := HMACKeyFromEnv(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d, want 32", len(key))
	}
}
