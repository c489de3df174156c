package middleware

import (
	"net/http"
	"strings"

	"edubooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the identity middleware.
const (
	ContextUserID       = "userID"
	ContextBookingToken = "bookingToken"
)

// BookingTokenHeader carries the anonymous booking token in both directions.
const BookingTokenHeader = "X-Booking-Token"

// OptionalAuthMiddleware resolves the caller without requiring sign-in. A bearer token,
// when present, must be valid; otherwise an anonymous booking token is picked up.
func OptionalAuthMiddleware(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
					Message: "Missing or invalid Authorization header",
					Code:    "invalid_authorization",
				})
				return
			}
			userID, err := verifier.ExtractIDFromToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				getLogger(c).Debug("Rejected bearer token", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
					Message: "Invalid token",
					Code:    "invalid_authorization",
				})
				return
			}
			c.Set(ContextUserID, userID)
		}

		if token := strings.TrimSpace(c.GetHeader(BookingTokenHeader)); token != "" {
			c.Set(ContextBookingToken, token)
		}
		c.Next()
	}
}
