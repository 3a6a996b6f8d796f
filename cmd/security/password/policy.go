package password

import (
	"unicode"
	"unicode/utf8"
)

// Validate checks password policy. Rules run in a fixed order (length,
// lowercase, uppercase, digit) and the first violated rule is returned.
// It does not mutate input.
func (c Config) Validate(password string) error {
	// Count characters (runes), not bytes, to be user-friendly.
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if c.Policy.MaxLength > 0 && n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	if c.Policy.RequireLowercase && !containsClass(password, unicode.IsLower) {
		return ErrNoLowercase
	}
	if c.Policy.RequireUppercase && !containsClass(password, unicode.IsUpper) {
		return ErrNoUppercase
	}
	if c.Policy.RequireDigit && !containsClass(password, unicode.IsDigit) {
		return ErrNoDigit
	}

	return nil
}

func containsClass(s string, is func(rune) bool) bool {
	for _, r := range s {
		if is(r) {
			return true
		}
	}
	return false
}
