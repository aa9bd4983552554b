// internal/form/form_test.go
//
// Unit-tests for Validate and the ValidationError helpers.

package form

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name    string `json:"name" validate:"required,min=2,max=5"`
	Email   string `json:"email" validate:"required,email"`
	Pass    string `json:"password" validate:"required"`
	Confirm string `json:"confirm_password" validate:"eqfield=Pass"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(context.Background(), signup{Name: "Ana", Email: "a@b.co", Pass: "x", Confirm: "x"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(context.Background(), signup{Name: "A", Email: "nope", Pass: "x", Confirm: "y"})

	ve, ok := AsValidationError(err)
	require.True(t, ok, "err = %v", err)

	f, ok := ve.Field("name")
	require.True(t, ok)
	assert.Equal(t, "Must be at least 2 characters.", f.Message)

	f, ok = ve.Field("email")
	require.True(t, ok)
	assert.Equal(t, "Enter a valid email address.", f.Message)

	_, ok = ve.Field("confirm_password")
	assert.True(t, ok)

	_, ok = ve.Field("password")
	assert.False(t, ok)
}

func TestIsValidationError_Wrapped(t *testing.T) {
	ve := &ValidationError{}
	ve.Add(ErrorField{Name: "subdomain", Message: "taken", Suggestions: []string{"a-2"}})

	wrapped := fmt.Errorf("register: %w", ve)
	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsValidationError(errors.New("db down")))
	assert.False(t, ve.Empty())
}
