package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("order not found")

	nfe, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order not found", nfe.Message)
	assert.Equal(t, "order not found", err.Error())
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order not found"))

	nfe, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	nfe, ok := IsNotFoundError(errors.New("some other error"))
	assert.False(t, ok)
	assert.Nil(t, nfe)
}

func TestValidationError_Creation(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "email is required"},
		{Field: "password", Message: "password is required"},
	}
	err := NewValidationError("validation failed", details...)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "validation failed", ve.Error())
	assert.Len(t, ve.Details, 2)
}

func TestTaxonomy_Discrimination(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"unauthorized", NewUnauthorizedError("invalid credentials"), func(e error) bool { _, ok := IsUnauthorizedError(e); return ok }},
		{"forbidden", NewForbiddenError("admin only"), func(e error) bool { _, ok := IsForbiddenError(e); return ok }},
		{"conflict", NewConflictError("out of stock"), func(e error) bool { _, ok := IsConflictError(e); return ok }},
		{"deadlock", NewDeadlockError("max retries exceeded"), func(e error) bool { _, ok := IsDeadlockError(e); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			_, isValidation := IsValidationError(tt.err)
			assert.False(t, isValidation)
		})
	}
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)
	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
