package domain

import "fmt"

// ValidationError reports raw input that failed a domain invariant.
type ValidationError struct {
	// Field is the logical input name ("name", "email").
	Field string
	// Input is the rejected raw value.
	Input string
	// Reason is a short human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%q is not a valid subscriber %s: %s", e.Input, e.Field, e.Reason)
}
