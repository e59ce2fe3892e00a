package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrValidation: bad creation or edit parameters.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: unknown loan or installment id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: operation outside the entity's allowed states.
	ErrInvalidState = errors.New("invalid state")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Lookup maps a store miss to ErrNotFound and passes every other error through.
func Lookup(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(format, args...)
	}
	return err
}
