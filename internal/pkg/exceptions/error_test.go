package exceptions

import (
	"appointment-composite-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewCustomError_RecordsCallerLocation(t *testing.T) {
	cause := errors.New("connection reset")

	err := ErrDownstreamUnavailable(cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.Equal(t, constvars.ErrCodeDownstreamUnavailable, err.Code)
	assert.Equal(t, constvars.ErrClientDownstreamUnavailable, err.ClientMessage)
	assert.Contains(t, err.DevMessage, "connection reset")
	require.Len(t, err.Locations, 1)
	assert.NotEqual(t, constvars.ResponseUnknown, err.Locations[0].File)
	assert.ErrorIs(t, err, cause)
}

func TestBuildNewCustomError_WrappingKeepsOriginal(t *testing.T) {
	original := ErrDownstream(http.StatusConflict, "slot already taken")

	wrapped := ErrServerProcess(fmt.Errorf("create: %w", original))

	assert.Same(t, original, wrapped)
	assert.Equal(t, http.StatusConflict, wrapped.StatusCode)
	assert.Equal(t, "slot already taken", wrapped.ClientMessage)
	assert.Len(t, wrapped.Locations, 2)
}

func TestCodeOfAndStatusCodeOf(t *testing.T) {
	err := fmt.Errorf("verify: %w", ErrTokenInvalid(nil))

	assert.Equal(t, constvars.ErrCodeUnauthenticated, CodeOf(err))
	assert.Equal(t, http.StatusUnauthorized, StatusCodeOf(err))

	plain := errors.New("boom")
	assert.Empty(t, CodeOf(plain))
	assert.Equal(t, http.StatusInternalServerError, StatusCodeOf(plain))
}

func TestCustomError_ErrorIncludesLocation(t *testing.T) {
	err := ErrCannotParseJSON(nil)

	assert.Contains(t, err.Error(), constvars.ErrDevCannotParseJSON)
	assert.Contains(t, err.Error(), err.Locations[0].FunctionName)

	bare := &CustomError{DevMessage: "bare"}
	assert.Equal(t, "bare", bare.Error())
}

type validationTarget struct {
	PatientID string  `json:"patient_id" validate:"required"`
	Session   *string `json:"session,omitempty" validate:"omitempty,oneof=morning afternoon"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

func TestFormatFirstValidationError(t *testing.T) {
	evening := "evening"
	longNotes := "too long"

	tests := map[string]struct {
		target   validationTarget
		expected string
	}{
		"required": {
			target:   validationTarget{},
			expected: "patient_id is required",
		},
		"oneof": {
			target:   validationTarget{PatientID: "p1", Session: &evening},
			expected: "session must be one of [morning, afternoon]",
		},
		"max": {
			target:   validationTarget{PatientID: "p1", Notes: &longNotes},
			expected: "notes maximum at 5 characters long",
		},
	}

	v := newTestValidator()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := v.Struct(tc.target)
			require.Error(t, err)
			assert.Equal(t, tc.expected, FormatFirstValidationError(err))
		})
	}
}

func TestFormatFirstValidationError_NonValidationError(t *testing.T) {
	assert.Equal(t, constvars.ErrClientCannotProcessRequest, FormatFirstValidationError(nil))
	assert.Equal(t, constvars.ErrDevInvalidInput, FormatFirstValidationError(errors.New("other")))
}
