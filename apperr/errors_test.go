package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Message: "invalid input",
		Fields:  map[string]string{"quantity": "must be at least 1", "items": "required"},
	}
	assert.Equal(t, "invalid input (items: required; quantity: must be at least 1)", err.Error())
	assert.Equal(t, "no items", Validation("no %s", "items").Error())
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	id := uuid.New()
	wrapped := fmt.Errorf("load order: %w", NotFound("order", id))

	var nf *NotFoundError
	assert.True(t, errors.As(wrapped, &nf))
	assert.Equal(t, id.String(), nf.ID)
	assert.Equal(t, "order not found: "+id.String(), nf.Error())

	var conflict *ConflictError
	assert.False(t, errors.As(wrapped, &conflict))
}
