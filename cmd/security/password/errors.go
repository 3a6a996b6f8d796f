package password

import "errors"

// Public, stable errors for callers. Each rule has its own sentinel so the
// first violated rule can be reported verbatim.
var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrNoLowercase      = errors.New("password needs a lowercase letter")
	ErrNoUppercase      = errors.New("password needs an uppercase letter")
	ErrNoDigit          = errors.New("password needs a digit")
	ErrInvalidHash      = errors.New("invalid password hash")
)

// IsPolicyViolation reports whether err is one of the policy rule errors.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, ErrNoLowercase) ||
		errors.Is(err, ErrNoUppercase) ||
		errors.Is(err, ErrNoDigit)
}
