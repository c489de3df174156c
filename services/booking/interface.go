package booking

import (
	"context"
	"time"

	"edubooking/models"
)

// Identity is the caller behind a booking request: an authenticated user or an anonymous token holder.
type Identity struct {
	UserID string
	Token  string
}

// Authenticated reports whether the caller is a signed-in user.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// SessionService manages the wizard's time-boxed session records.
type SessionService interface {
	// Create starts a session. The returned token is non-empty for anonymous callers only.
	Create(ctx context.Context, id Identity, step models.Step, data models.BookingDetails) (*models.BookingSession, string, error)
	Get(ctx context.Context, sessionID string, id Identity) (*models.BookingSession, error)
	// Update merges partial into the session and optionally moves it to step. Anonymous sessions get a fresh token.
	Update(ctx context.Context, sessionID string, id Identity, partial models.BookingDetails, step *models.Step, clear ...string) (*models.BookingSession, string, error)
	Delete(ctx context.Context, sessionID string, id Identity) error
}

// AvailabilityService decides whether a slot can be booked.
type AvailabilityService interface {
	Check(ctx context.Context, req AvailabilityRequest) AvailabilityResult
}

// CompletionService turns a finished session into an appointment.
type CompletionService interface {
	Complete(ctx context.Context, sessionID string, id Identity) (*CompletionResult, error)
}

// IdentityResolver finds or provisions the account an anonymous booking is bound to.
type IdentityResolver interface {
	Resolve(ctx context.Context, contact models.ContactDetails) (*models.User, error)
}

// NotificationScheduler persists the notification cascade for a new appointment.
type NotificationScheduler interface {
	Schedule(ctx context.Context, appt models.Appointment, startsAt time.Time) ([]models.NotificationRecord, error)
}
