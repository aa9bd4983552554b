// internal/form/validator.go
//
// Shared go-playground/validator instance and message mapping.
//
// Notes
// -----
// • Field names come from `json` tags so ErrorField.Name matches the
//   request body the client sent.
// • Messages follow the platform defaults; a tag without a mapping falls
//   back to “Invalid input.”

package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// Validate checks s's `validate` tags.  It returns nil, a *ValidationError,
// or the validator's own error for programming mistakes (non-struct input).
func Validate(ctx context.Context, s any) error {
	err := v.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	return FromValidator(err)
}

// FromValidator converts validator.ValidationErrors into *ValidationError.
// Other errors are returned unchanged.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Add(ErrorField{Name: fe.Field(), Message: message(fe)})
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "Values do not match."
	default:
		return "Invalid input."
	}
}
