package akamai

import (
	"errors"
	"fmt"
)

// ErrMissingHeader is returned when a matcher requires a header the subject
// does not carry
var ErrMissingHeader = errors.New("required header is missing")

// MissingHeaderError wraps ErrMissingHeader with the header name
func MissingHeaderError(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingHeader, name)
}
