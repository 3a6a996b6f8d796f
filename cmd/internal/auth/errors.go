package auth

import "errors"

// ErrUnauthorized covers both unknown logins and password mismatches, so
// callers cannot probe which logins exist.
var ErrUnauthorized = errors.New("invalid login or password")
