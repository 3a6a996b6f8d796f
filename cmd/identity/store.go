package identity

import (
	"context"
	"time"
)

// User is the canonical user record.
//
// Token is nil while the user is logged out and non-nil while a session is
// active. There is no multi-session support: issuing a new token or logging
// out always overwrites or clears the single token field.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         string
	Token        *string
	CreatedAt    time.Time
}

// CreateUserInput describes a registration write.
// The password is already hashed by the caller; stores never see plaintext.
type CreateUserInput struct {
	Login        string
	PasswordHash string
	Role         string
	Now          time.Time
}

// Store is the user persistence boundary.
//
// Create assigns a fresh id (unix seconds of Now, bumped past collisions)
// and a freshly issued token, and fails with a ConflictError when the login
// is already taken. Update is a whole-record replace keyed by login; there
// are no partial-field updates.
type Store interface {
	Create(ctx context.Context, in CreateUserInput) (User, error)
	FindByLogin(ctx context.Context, login string) (User, error)
	Update(ctx context.Context, u User) error
}

func normalizeNow(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now().UTC()
	}
	return now.UTC()
}
