package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden: user does not have permission for this action")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict: state precondition violated")
)

// validationErr wraps ErrValidation with a field-level message so handlers
// can both match on the sentinel and surface the detail.
func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
