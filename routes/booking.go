package routes

import (
	"edubooking/handlers"
	"edubooking/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
// Authentication is optional: anonymous callers use the booking token header instead.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, requestsPerMin int) {
	booking := r.Group("/api/booking")
	booking.Use(middleware.RateLimitMiddleware(requestsPerMin))
	booking.Use(middleware.OptionalAuthMiddleware(hb.Verifier))
	{
		booking.POST("/sessions", hb.CreateSession)
		booking.GET("/sessions/:sessionID", hb.GetSession)
		booking.PATCH("/sessions/:sessionID", hb.UpdateSession)
		booking.DELETE("/sessions/:sessionID", hb.DeleteSession)
		booking.POST("/sessions/:sessionID/complete", hb.CompleteSession)

		booking.GET("/availability", hb.CheckAvailability)
		booking.GET("/appointment-types", hb.ListAppointmentTypes)
	}
}
