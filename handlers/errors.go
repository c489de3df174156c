package handlers

import (
	"net/http"

	"edubooking/services/booking"
	"edubooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a booking failure onto an HTTP status.
func statusFor(be *booking.BookingError) int {
	switch be.Kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindUnauthorized:
		return http.StatusUnauthorized
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindDependency:
		if be.Code == booking.CodeAvailabilityFailed {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a structured response. Unknown errors become a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	be, ok := booking.AsBookingError(err)
	if !ok {
		logger.Error("Unexpected booking failure", zap.Error(err))
		utils.JSONError(c, logger, http.StatusInternalServerError, utils.ErrorResponse{
			Message: "Internal Server Error",
			Details: "An unexpected error occurred. Please try again later.",
		})
		return
	}

	status := statusFor(be)
	resp := utils.ErrorResponse{
		Message:       be.Message,
		Code:          be.Code,
		MissingFields: be.MissingFields,
	}
	if status >= http.StatusInternalServerError && be.Err != nil {
		logger.Error("Booking dependency failure", zap.String("code", be.Code), zap.Error(be.Err))
	}
	utils.JSONError(c, logger, status, resp)
}
