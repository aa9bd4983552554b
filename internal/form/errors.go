// internal/form/errors.go
//
// Field-level validation errors shared by every handler.
//
// Context
//   Handlers distinguish user input errors from system failures.  A
//   *ValidationError carries one ErrorField per offending input so the
//   client can highlight exact issues, plus optional alternatives (e.g.,
//   free subdomains).  Anything else is a system failure and becomes a
//   generic 500.
//
// Workflow
//   •  Struct tags are checked by the shared validator (see validator.go).
//   •  FromValidator turns validator.ValidationErrors into ErrorFields.
//   •  Business checks append their own ErrorFields.
//   •  IsValidationError / AsValidationError let callers branch.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package form

import "errors"

// ErrorField describes a single validation failure.
type ErrorField struct {
	Name        string   `json:"name"`                  // field name, "" = form-level
	Message     string   `json:"message"`               // user-facing message
	Suggestions []string `json:"suggestions,omitempty"` // accepted alternatives
}

// ValidationError wraps []ErrorField and satisfies the error interface.
type ValidationError struct {
	Fields []ErrorField `json:"errors"`
}

func (ve *ValidationError) Error() string { return "form validation failed" }

// Add appends a field error.
func (ve *ValidationError) Add(f ErrorField) { ve.Fields = append(ve.Fields, f) }

// Empty reports whether no field errors were collected.
func (ve *ValidationError) Empty() bool { return len(ve.Fields) == 0 }

// Field returns the first error recorded for name.
func (ve *ValidationError) Field(name string) (ErrorField, bool) {
	for _, f := range ve.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ErrorField{}, false
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
