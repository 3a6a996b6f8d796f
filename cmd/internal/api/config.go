package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config controls request handling limits.
type Config struct {
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64
}

// DefaultConfig returns the baseline limits.
func DefaultConfig() Config {
	return Config{MaxBodyBytes: 1 << 20} // 1 MiB
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - SORTHUB_MAX_BODY_BYTES
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("SORTHUB_MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 1024 || n > 64<<20 {
			return Config{}, fmt.Errorf("SORTHUB_MAX_BODY_BYTES: out of range [1024..%d]", 64<<20)
		}
		cfg.MaxBodyBytes = n
	}

	return cfg, nil
}
