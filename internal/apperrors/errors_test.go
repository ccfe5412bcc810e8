package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NotFound("job not found", nil)
	assert.Equal(t, "NOT_FOUND: job not found", err.Error())
	assert.NotEmpty(t, err.StackTrace())

	wrapped := Internal("saving job", assert.AnError)
	assert.Contains(t, wrapped.Error(), "INTERNAL: saving job: ")
	assert.ErrorIs(t, wrapped, assert.AnError)
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation("invalid listing", map[string]string{"title": "title is required"})

	assert.Equal(t, ErrTypeInvalidInput, err.Type)
	assert.Equal(t, "title is required", err.Fields["title"])
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Conflict("role already selected", nil))

	assert.Equal(t, ErrTypeConflict, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrTypeConflict))
	assert.False(t, Is(wrapped, ErrTypeNotFound))
	assert.Equal(t, ErrTypeInternal, TypeOf(assert.AnError))
}
