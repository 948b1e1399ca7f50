package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, TypeOf(NewNotFoundError("missing")))
	assert.Equal(t, ErrorTypeNoActiveQuestion, TypeOf(NewNoActiveQuestionError("not started")))
	assert.Equal(t, ErrorTypeSessionTerminated, TypeOf(NewSessionTerminatedError("done")))

	// Wrapped AppErrors are still recognized.
	wrapped := fmt.Errorf("handler: %w", NewInvalidAnswerError("bad value"))
	assert.Equal(t, ErrorTypeInvalidAnswer, TypeOf(wrapped))

	// Plain errors fall back to internal.
	assert.Equal(t, ErrorTypeInternal, TypeOf(fmt.Errorf("boom")))
}

func TestAppErrorMessage(t *testing.T) {
	err := NewExternalError("upstream returned status 502", fmt.Errorf("bad gateway"))
	assert.Contains(t, err.Error(), "EXTERNAL")
	assert.Contains(t, err.Error(), "bad gateway")
	assert.Error(t, err.Unwrap())

	fieldErr := NewFieldValidationError("invalid intake", map[string]string{"age": "required"})
	assert.Equal(t, ErrorTypeValidation, fieldErr.Type)
	assert.Equal(t, "required", fieldErr.Fields["age"])
}
