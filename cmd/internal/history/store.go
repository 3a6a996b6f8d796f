// Package history persists, per user login, the ordered list of arrays
// produced by sort operations.
//
// The sequence is append-mostly: sorts append, the update operation rewrites
// the last entry, and entries can be removed by index or wholesale. Order
// always reflects creation order, oldest first. Save replaces the full
// persisted sequence; callers serialize their read-modify-write cycles per
// login, so no partial write is ever observable.
package history

import (
	"context"
	"errors"
)

// ErrNotFound is returned by DeleteAll when no sequence is persisted for
// the login. Load does not use it: a missing sequence loads as empty.
var ErrNotFound = errors.New("history not found")

// Store is the history persistence boundary.
type Store interface {
	// Load returns the persisted sequence for login, oldest first.
	// A login with no history loads as an empty (possibly nil) slice.
	Load(ctx context.Context, login string) ([][]int, error)

	// Save replaces the full persisted sequence for login.
	// Saving an empty sequence keeps the login present with zero entries.
	Save(ctx context.Context, login string, entries [][]int) error

	// DeleteAll removes the persisted sequence entirely.
	DeleteAll(ctx context.Context, login string) error
}
