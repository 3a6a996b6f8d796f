package arrays

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNoHistory    = errors.New("no_history")
	ErrInvalidRange = errors.New("invalid_range")
	ErrInvalidIndex = errors.New("invalid_index")
)
