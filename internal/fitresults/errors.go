package fitresults

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrPersist wraps repository failures after a successful engine run.
	ErrPersist = errors.New("persist fit result")
)

// InputError is a caller mistake detected before any engine call.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func inputError(field, message string) error {
	return &InputError{Field: field, Message: message}
}
