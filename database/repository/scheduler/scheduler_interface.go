package schedulerRepo

import (
	"context"
	"errors"
	"time"

	"edubooking/models"
)

// ErrSlotTaken is returned when an insert would overlap a non-cancelled appointment.
var ErrSlotTaken = errors.New("slot already booked")

// AppointmentRepository persists appointments and answers overlap queries.
type AppointmentRepository interface {
	// FindOverlappingAppointments returns non-cancelled appointments of an instructor on date intersecting [start, end).
	FindOverlappingAppointments(ctx context.Context, instructorID, date string, start, end int) ([]models.Appointment, error)
	// InsertAppointment stores appt unless it overlaps an existing non-cancelled appointment (ErrSlotTaken).
	InsertAppointment(ctx context.Context, appt *models.Appointment) error
	// GetAppointmentByID retrieves a single appointment.
	GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
}

// AvailabilityRepository reads instructor-maintained availability data.
type AvailabilityRepository interface {
	// GetActiveRules returns active weekly rules for an instructor on a weekday.
	GetActiveRules(ctx context.Context, instructorID string, day time.Weekday) ([]models.AvailabilityRule, error)
	// GetActiveBlocks returns blocked periods for an instructor on date.
	GetActiveBlocks(ctx context.Context, instructorID, date string) ([]models.TimeBlock, error)
}
