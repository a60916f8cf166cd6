package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("reminder not found")

// FieldError is a local validation failure tied to a single input field.
// These never reach the network; presentation shows them inline.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
