package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "load history")

	assert.Equal(t, "load history: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestAsFindsOutermostCode(t *testing.T) {
	inner := New(CodeNotFound, "member not found")
	outer := Wrap(inner, CodeTimeout, "recommendation timed out")
	chained := fmt.Errorf("handler: %w", outer)

	de, ok := As(chained)
	require.True(t, ok)
	assert.Equal(t, CodeTimeout, de.Code)
	assert.True(t, HasCode(chained, CodeTimeout))
	assert.False(t, HasCode(chained, CodeNotFound))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeForbidden, http.StatusForbidden},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInvariantViolation, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
		{Code("mystery"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.code))
		})
	}
}
