package sessionRepo

import (
	"context"
	"errors"

	"edubooking/models"
)

// ErrSessionNotFound is returned when no stored session matches an ID.
var ErrSessionNotFound = errors.New("booking session not found")

// SessionRepository stores booking sessions. Implementations do not interpret ownership
// or expiry beyond physical retention; the booking service enforces both.
type SessionRepository interface {
	Save(ctx context.Context, session *models.BookingSession) error
	Get(ctx context.Context, id string) (*models.BookingSession, error)
	Delete(ctx context.Context, id string) error
}
