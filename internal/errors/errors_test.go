package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := NotFoundf("book %s is not on your shelf", "ol-1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrForbidden))
	assert.Equal(t, "book ol-1 is not on your shelf", err.Error())

	wrapped := fmt.Errorf("remove: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, CodeInternal, "load goals")

	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.True(t, Is(err, ErrInternal))
	assert.Equal(t, "load goals: unexpected EOF", err.Error())
}

func TestWithDetails(t *testing.T) {
	base := Validation("invalid request")
	detailed := base.WithDetails(map[string]string{"pages": "must be positive"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"pages": "must be positive"}, detailed.Details)
	assert.Equal(t, http.StatusBadRequest, detailed.HTTPStatus())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(io.EOF))
}
