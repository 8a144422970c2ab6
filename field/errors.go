package field

import (
	"errors"
	"fmt"
)

// Errors returned by the field functions.
var (
	// ErrInvalidField is matched by every *InvalidFieldError, so callers can
	// test for the condition with errors.Is without caring about the value.
	ErrInvalidField = errors.New("invalid CEF field")

	// ErrInvalidUTF8 is returned by DecodeCharset when input declared as UTF-8
	// is not.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
)

// InvalidFieldError is returned when a field value cannot be represented in a
// CEF line at all. The offending value is preserved for diagnostics.
type InvalidFieldError struct {
	Class Class  // the kind of field being escaped
	Value string // the original, unescaped value
}

// Error returns the error message.
func (err *InvalidFieldError) Error() string {
	return fmt.Sprintf("the %s field %q contained an invalid character", err.Class, err.Value)
}

// Is reports whether target is ErrInvalidField.
func (err *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}
