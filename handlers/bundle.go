package handlers

import (
	"edubooking/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Verifier *utils.TokenVerifier

	// Booking session endpoints
	CreateSession   gin.HandlerFunc
	GetSession      gin.HandlerFunc
	UpdateSession   gin.HandlerFunc
	DeleteSession   gin.HandlerFunc
	CompleteSession gin.HandlerFunc

	// Wizard lookups
	CheckAvailability    gin.HandlerFunc
	ListAppointmentTypes gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires a BookingHandler and health probe into a bundle.
func NewHandlerBundle(bh *BookingHandler, monitor *utils.HealthMonitor, verifier *utils.TokenVerifier) *HandlerBundle {
	return &HandlerBundle{
		Verifier:             verifier,
		CreateSession:        bh.CreateSession,
		GetSession:           bh.GetSession,
		UpdateSession:        bh.UpdateSession,
		DeleteSession:        bh.DeleteSession,
		CompleteSession:      bh.CompleteSession,
		CheckAvailability:    bh.CheckAvailability,
		ListAppointmentTypes: bh.ListAppointmentTypes,
		Health:               HealthHandler(monitor),
	}
}
