package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"slot full", ErrSlotFull, http.StatusConflict},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"invalid transition", ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"auth required", ErrAuthRequired, http.StatusUnauthorized},
		{"wrapped sentinel", fmt.Errorf("getting schedule: %w", ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFromErrorKeepsDomainMessage(t *testing.T) {
	httpErr := FromError(fmt.Errorf("booking appointment: %w", ErrSlotFull))

	assert.Equal(t, http.StatusConflict, httpErr.Code)
	assert.Equal(t, "booking appointment: schedule slot is full", httpErr.Message)
	assert.Equal(t, httpErr.Message, httpErr.Error())
}

func TestFromErrorMasksInternalErrors(t *testing.T) {
	httpErr := FromError(fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	assert.Equal(t, "Internal server error", httpErr.Message)
}
