package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errCause = errors.New("cause")

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"password", Password("wrong password", errCause), http.StatusBadRequest},
		{"processing", Processing("render failed", errCause), http.StatusInternalServerError},
		{"resource", Resource("scratch", errCause), http.StatusInternalServerError},
		{"plain", errCause, http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("ctx: %w", Validation("bad")), http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestErrorsIsThroughKind(t *testing.T) {
	err := Processing("compress", errCause)
	assert.ErrorIs(t, err, errCause)
	assert.Equal(t, KindProcessing, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errCause))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "No file provided", Message(Validation("No file provided")))
	assert.Equal(t, "Incorrect password provided", Message(Password("Incorrect password provided", errCause)))
	assert.Equal(t, "render failed: cause", Message(Processing("render failed", errCause)))
	assert.Equal(t, "cause", Message(errCause))
}

func TestValidationErrKeepsCause(t *testing.T) {
	err := ValidationErr(errCause)
	assert.ErrorIs(t, err, errCause)
	assert.Equal(t, "cause", Message(err))
}
