package patina

import "errors"

// ErrInvalidValue is returned by draft setters when a value fails
// validation. The draft layer is left untouched.
var ErrInvalidValue = errors.New("invalid value")
