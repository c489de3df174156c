package appointmentTypeRepo

import (
	"context"
	"errors"

	"edubooking/models"
)

// ErrTypeNotFound is returned when no appointment type matches an ID.
var ErrTypeNotFound = errors.New("appointment type not found")

// AppointmentTypeRepository is the read API over appointment-type reference data.
type AppointmentTypeRepository interface {
	GetByID(ctx context.Context, id string) (*models.AppointmentType, error)
	ListActive(ctx context.Context) ([]models.AppointmentType, error)
}
