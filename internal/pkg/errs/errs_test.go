package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "42")

		assert.Equal(t, "orderId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 42", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "42", cause)

		assert.Equal(t,
			"object not found: param is: orderId, ID is: 42 (cause: connection reset)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidErrorWithCause("status", errors.New("shipped is not a provider decision"))

	assert.Equal(t, "value is invalid: status (cause: shipped is not a provider decision)", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "value is invalid: lat", errs.NewValueIsInvalidError("lat").Error())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("formats bounds", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 91.5, -90, 90)

		assert.Equal(t, 91.5, err.Value)
		assert.Equal(t, "value is invalid: 91.5 is lat, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("flattens newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("name", "para\ncetamol", 1, 64, errors.New("bad"))

		assert.Contains(t, err.Error(), "para cetamol")
		assert.NotContains(t, err.Error(), "\n")
		assert.Contains(t, err.Error(), "(cause: bad)")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredErrorWithCause("productName", errors.New("blank"))

	assert.Equal(t, "value is required: productName (cause: blank)", err.Error())
	assert.Equal(t, "value is required: quantity", errs.NewValueIsRequiredError("quantity").Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidErrorWithCause("order", errors.New("expected version 3"))
	assert.Equal(t, "version is invalid: order (cause: expected version 3)", err.Error())
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)

	bare := errs.NewVersionIsInvalidError("order")
	require.NoError(t, bare.Cause)
	assert.Equal(t, "version is invalid: order", bare.Error())
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("out-for-delivery", "confirm")

	assert.Equal(t, "invalid transition: cannot confirm an order in status out-for-delivery", err.Error())
	require.ErrorIs(t, fmt.Errorf("wrapped: %w", err), errs.ErrInvalidTransition)
}

func TestForbiddenError(t *testing.T) {
	err := errs.NewForbiddenError("c-2", "is not the assigned courier")

	assert.Equal(t, "forbidden: actor c-2 is not the assigned courier", err.Error())
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestDependencyUnavailableError(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := errs.NewDependencyUnavailableError("cache", cause)

	assert.Equal(t, "dependency unavailable: cache (cause: dial tcp: i/o timeout)", err.Error())
	require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, errs.NewDependencyUnavailableError("bus", nil), errs.ErrDependencyUnavailable)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errs.IsValidation(errs.NewValueIsInvalidError("x")))
	assert.True(t, errs.IsValidation(errs.NewValueIsRequiredError("x")))
	assert.True(t, errs.IsValidation(errors.Join(errs.NewValueIsOutOfRangeError("x", 1, 2, 3))))
	assert.False(t, errs.IsValidation(errs.ErrCartIsEmpty))
	assert.False(t, errs.IsValidation(errs.NewForbiddenError("a", "b")))
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "cart is empty", errs.ErrCartIsEmpty.Error())
	assert.Equal(t, "dependency unavailable", errs.ErrDependencyUnavailable.Error())
}
