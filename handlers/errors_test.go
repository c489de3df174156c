package handlers

import (
	"net/http"
	"testing"

	"edubooking/services/booking"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  *booking.BookingError
		want int
	}{
		{booking.ErrSessionNotFound, http.StatusNotFound},
		{&booking.BookingError{Kind: booking.KindValidation}, http.StatusBadRequest},
		{&booking.BookingError{Kind: booking.KindUnauthorized}, http.StatusUnauthorized},
		{&booking.BookingError{Kind: booking.KindConflict}, http.StatusConflict},
		{&booking.BookingError{Kind: booking.KindDependency, Code: booking.CodeStorageFailed}, http.StatusInternalServerError},
		{&booking.BookingError{Kind: booking.KindDependency, Code: booking.CodeAvailabilityFailed}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Kind.String())
	}
}
