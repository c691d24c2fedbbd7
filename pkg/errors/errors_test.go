package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrConflict, ErrOutOfStock, ErrServiceUnavail, ErrInternal,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	withInner := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: fmt.Errorf("redis down")}
	assert.Equal(t, "INTERNAL_ERROR: something broke: redis down", withInner.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "cart not found"}
	assert.Equal(t, "NOT_FOUND: cart not found", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"not found", NotFound("product", "leather-jacket"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"invalid input", InvalidInput("quantity must be between 1 and 10"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("missing token"), "UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden("nope"), "FORBIDDEN", http.StatusForbidden, ErrForbidden},
		{"conflict", Conflict("version mismatch"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"out of stock", OutOfStock("leather-jacket"), "OUT_OF_STOCK", http.StatusUnprocessableEntity, ErrOutOfStock},
		{"unavailable", ServiceUnavailable("catalog down"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}

	assert.Equal(t, "product with id leather-jacket not found", NotFound("product", "leather-jacket").Message)
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	assert.Equal(t, "an internal error occurred", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestWrap_PreservesChain(t *testing.T) {
	err := Wrap(NotFound("cart", "c1"), "load cart")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "load cart")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", ErrConflict), http.StatusConflict},
		{fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("x: %w", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("x: %w", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("x: %w", ErrOutOfStock), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
