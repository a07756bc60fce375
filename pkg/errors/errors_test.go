package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	apperrors "github.com/littlesprouts/preschool-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidInputError(t *testing.T) {
	err := fmt.Errorf("gate: %w", apperrors.InvalidInputError("email", "invalid email format"))

	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, "gate: email: invalid email format: invalid input", err.Error())

	fe, ok := apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "email", fe.Field)
	assert.Equal(t, "invalid email format", fe.Reason)
}

func TestCaptchaError(t *testing.T) {
	cause := stderrors.New("timeout-or-duplicate")
	err := apperrors.CaptchaError(cause)

	assert.True(t, apperrors.Is(err, apperrors.ErrCaptchaFailed))
	assert.True(t, apperrors.Is(err, cause))

	_, ok := apperrors.AsFieldError(err)
	assert.False(t, ok)
}
