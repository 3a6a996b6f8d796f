package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is the session carried between sortctl invocations.
type State struct {
	Server string `yaml:"server"`
	Login  string `yaml:"login"`
	Token  string `yaml:"token,omitempty"`
}

// DefaultStatePath returns the state file location, honoring
// SORTHUB_STATE_FILE before falling back under the user config dir.
func DefaultStatePath() string {
	if p := os.Getenv("SORTHUB_STATE_FILE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sortctl.yaml"
	}
	return filepath.Join(dir, "sortctl", "state.yaml")
}

// LoadState reads the state file; a missing file yields a zero State.
func LoadState(path string) (State, error) {
	var st State

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse state %q: %w", path, err)
	}
	return st, nil
}

// SaveState writes the state file with owner-only permissions; the token is
// a bearer credential.
func SaveState(path string, st State) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
