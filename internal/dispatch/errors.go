package dispatch

import (
	"errors"
	"fmt"
)

// ErrNoRecipients is returned when range and address filtering leave nobody to
// send to. It is the only batch-level failure once a request is valid.
var ErrNoRecipients = errors.New("no valid recipient emails found in the given range")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InvalidRangeError reports range bounds that are missing or not integers.
type InvalidRangeError struct {
	Field string
	Value string
}

func (e *InvalidRangeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s must be a whole number, got %q", e.Field, e.Value)
}

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	var ve *ValidationError
	var re *InvalidRangeError
	return errors.As(err, &ve) || errors.As(err, &re)
}
