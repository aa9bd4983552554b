package merchant

import (
	"errors"
	"fmt"
)

// Constrained fields reported by UniquenessViolation.
const (
	FieldEmail     = "email"
	FieldSubdomain = "subdomain"
)

// ErrNotFound is returned when no active merchant matches the lookup.
var ErrNotFound = errors.New("merchant not found")

// UniquenessViolation is returned by Insert when the store rejected the row
// because Field is already taken.
type UniquenessViolation struct {
	Field string
	Value string
}

func (e *UniquenessViolation) Error() string {
	return fmt.Sprintf("merchant: %s %q already taken", e.Field, e.Value)
}
