package booking

import (
	"context"
	"errors"
	"time"

	appointmentTypeRepo "edubooking/database/repository/appointmenttype"
	lockRepo "edubooking/database/repository/lock"
	schedulerRepo "edubooking/database/repository/scheduler"
	userRepo "edubooking/database/repository/user"
	"edubooking/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auxiliary steps that may fail after the appointment exists.
const (
	WarningNotifications  = "notifications"
	WarningSessionCleanup = "session_cleanup"
	WarningDetails        = "details"
)

// defaultLockTTL outlives the bounded work done under the lease: three availability
// queries (5s each), identity resolution (up to three 5s calls) and the insert (10s).
const (
	defaultLockTTL     = 45 * time.Second
	defaultLockRetries = 3
	defaultLockBackoff = 50 * time.Millisecond
)

// Warning records an auxiliary failure that did not undo the booking.
type Warning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// CompletionResult is the committed appointment plus whatever auxiliary work failed.
type CompletionResult struct {
	Appointment   *models.AppointmentDetails  `json:"appointment"`
	Notifications []models.NotificationRecord `json:"notifications,omitempty"`
	Warnings      []Warning                   `json:"warnings,omitempty"`
}

func (r *CompletionResult) warn(step, msg string) {
	r.Warnings = append(r.Warnings, Warning{Step: step, Message: msg})
}

// CompletionDeps wires the collaborators of a CompletionCoordinator.
type CompletionDeps struct {
	Sessions     *SessionStore
	Types        appointmentTypeRepo.AppointmentTypeRepository
	Availability AvailabilityService
	Appointments schedulerRepo.AppointmentRepository
	Users        userRepo.UserRepository
	Identity     IdentityResolver
	Notifier     NotificationScheduler
	Locker       lockRepo.SlotLocker
	Location     *time.Location
	Logger       *zap.Logger
	Now          func() time.Time
}

// CompletionCoordinator converts a finished booking session into a pending appointment.
type CompletionCoordinator struct {
	deps        CompletionDeps
	validate    *validator.Validate
	lockTTL     time.Duration
	lockRetries int
	lockBackoff time.Duration
}

func NewCompletionCoordinator(deps CompletionDeps) *CompletionCoordinator {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CompletionCoordinator{
		deps:        deps,
		validate:    validator.New(),
		lockTTL:     defaultLockTTL,
		lockRetries: defaultLockRetries,
		lockBackoff: defaultLockBackoff,
	}
}

var _ CompletionService = (*CompletionCoordinator)(nil)

// Complete validates the session, re-checks the slot under a lock, resolves the booker,
// inserts the appointment and then runs the best-effort follow-ups. Errors returned
// before the insert leave the session intact; nothing after the insert undoes it.
func (c *CompletionCoordinator) Complete(ctx context.Context, sessionID string, id Identity) (*CompletionResult, error) {
	logger := c.deps.Logger.With(zap.String("sessionID", sessionID))

	session, err := c.deps.Sessions.Get(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	slot, err := c.readyToComplete(session)
	if err != nil {
		return nil, err
	}

	apptType, err := c.activeType(ctx, session.Data.AppointmentTypeID)
	if err != nil {
		return nil, err
	}

	release, err := c.lockSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if release == nil {
			return
		}
		if err := release(context.Background()); err != nil {
			logger.Warn("Failed to release slot lock", zap.Error(err))
		}
	}()

	check := c.deps.Availability.Check(ctx, AvailabilityRequest{
		InstructorID: slot.InstructorID,
		Date:         slot.Date,
		Start:        slot.Start,
		End:          slot.End,
	})
	if !check.Available {
		if check.Code == AvailabilityUnverified {
			return nil, newDependencyError(CodeAvailabilityFailed, "slot availability could not be verified", check.Err)
		}
		return nil, newConflictError(CodeSlotUnavailable, "selected slot is no longer available: "+check.Reason)
	}

	var booker *models.User
	userID := id.UserID
	if session.Anonymous() {
		booker, err = c.deps.Identity.Resolve(ctx, *session.Data.Contact)
		if err != nil {
			return nil, newDependencyError(CodeIdentityFailed, "could not resolve booking identity", err)
		}
		userID = booker.ID
	}

	appt := models.Appointment{
		ID:                uuid.New().String(),
		UserID:            userID,
		InstructorID:      slot.InstructorID,
		AppointmentTypeID: apptType.ID,
		Date:              slot.Date,
		Start:             slot.Start,
		End:               slot.End,
		Duration:          slot.End - slot.Start,
		Status:            models.AppointmentStatusPending,
		MeetingType:       session.Data.MeetingType,
		Location:          session.Data.Location,
		Title:             apptType.Name,
		Description:       apptType.Description,
		Notes:             session.Data.Notes,
		SessionID:         session.ID,
		CreatedAt:         c.deps.Now(),
	}
	if err := c.deps.Appointments.InsertAppointment(ctx, &appt); err != nil {
		if errors.Is(err, schedulerRepo.ErrSlotTaken) {
			return nil, newConflictError(CodeSlotUnavailable, "selected slot is no longer available: "+ReasonBooked)
		}
		return nil, newDependencyError(CodeStorageFailed, "could not create appointment", err)
	}
	if err := release(context.Background()); err != nil {
		logger.Warn("Failed to release slot lock", zap.Error(err))
	}
	release = nil

	logger = logger.With(zap.String("appointmentID", appt.ID))
	logger.Info("Appointment created",
		zap.String("instructorID", appt.InstructorID),
		zap.String("date", appt.Date),
		zap.Int("start", appt.Start),
	)

	// The appointment is committed; a caller that goes away must not cut the follow-ups short.
	auxCtx := context.WithoutCancel(ctx)
	result := &CompletionResult{}
	c.scheduleNotifications(auxCtx, logger, appt, result)
	c.cleanupSession(auxCtx, logger, session.ID, result)
	result.Appointment = c.describe(auxCtx, logger, appt, apptType, booker, result)
	return result, nil
}

// readyToComplete checks that every required field is present and the slot is coherent.
func (c *CompletionCoordinator) readyToComplete(session *models.BookingSession) (models.Slot, error) {
	if missing := missingFields(session.Data, session.Anonymous()); len(missing) > 0 {
		return models.Slot{}, newMissingFieldsError(missing)
	}
	slot, err := parseSlot(session.Data)
	if err != nil {
		return models.Slot{}, err
	}
	if session.Anonymous() {
		if err := c.validate.Var(session.Data.Contact.Email, "required,email"); err != nil {
			return models.Slot{}, newValidationError(CodeInvalidContact, "contact email is not a valid address")
		}
	}
	return slot, nil
}

func (c *CompletionCoordinator) activeType(ctx context.Context, typeID string) (*models.AppointmentType, error) {
	t, err := c.deps.Types.GetByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, appointmentTypeRepo.ErrTypeNotFound) {
			return nil, newValidationError(CodeInvalidType, "appointment type does not exist")
		}
		return nil, newDependencyError(CodeStorageFailed, "could not load appointment type", err)
	}
	if !t.Active {
		return nil, newValidationError(CodeInvalidType, "appointment type is not active")
	}
	return t, nil
}

// lockSlot takes the instructor-day lease, retrying briefly while another completion holds it.
func (c *CompletionCoordinator) lockSlot(ctx context.Context, slot models.Slot) (func(context.Context) error, error) {
	key := lockRepo.SlotKey(slot.InstructorID, slot.Date)
	for attempt := 0; ; attempt++ {
		release, err := c.deps.Locker.Acquire(ctx, key, c.lockTTL)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, lockRepo.ErrLockHeld) {
			return nil, newDependencyError(CodeAvailabilityFailed, "slot availability could not be verified", err)
		}
		if attempt >= c.lockRetries {
			return nil, newConflictError(CodeSlotBusy, "slot is being booked by another request")
		}
		select {
		case <-ctx.Done():
			return nil, newConflictError(CodeSlotBusy, "slot is being booked by another request")
		case <-time.After(c.lockBackoff * time.Duration(attempt+1)):
		}
	}
}

func (c *CompletionCoordinator) scheduleNotifications(ctx context.Context, logger *zap.Logger, appt models.Appointment, result *CompletionResult) {
	startsAt, err := appt.StartsAt(c.deps.Location)
	if err != nil {
		logger.Error("Could not anchor appointment start", zap.Error(err))
		result.warn(WarningNotifications, "notifications could not be scheduled")
		return
	}
	records, err := c.deps.Notifier.Schedule(ctx, appt, startsAt)
	if err != nil {
		logger.Error("Notification scheduling failed", zap.Error(err))
		result.warn(WarningNotifications, "notifications could not be scheduled")
		return
	}
	result.Notifications = records
}

func (c *CompletionCoordinator) cleanupSession(ctx context.Context, logger *zap.Logger, sessionID string, result *CompletionResult) {
	if err := c.deps.Sessions.discard(ctx, sessionID); err != nil {
		logger.Warn("Session cleanup failed; it will expire on its own", zap.Error(err))
		result.warn(WarningSessionCleanup, "booking session could not be removed")
	}
}

// describe denormalizes participant and type details onto the appointment.
func (c *CompletionCoordinator) describe(ctx context.Context, logger *zap.Logger, appt models.Appointment, apptType *models.AppointmentType, booker *models.User, result *CompletionResult) *models.AppointmentDetails {
	details := models.NewAppointmentDetails(appt)
	details.Type = apptType.Summary()

	if instructor, err := c.deps.Users.GetByID(ctx, appt.InstructorID); err != nil {
		logger.Warn("Instructor lookup failed", zap.Error(err))
		result.warn(WarningDetails, "instructor details unavailable")
	} else {
		details.Instructor = instructor.Summary()
	}

	if booker == nil {
		u, err := c.deps.Users.GetByID(ctx, appt.UserID)
		if err != nil {
			logger.Warn("User lookup failed", zap.Error(err))
			result.warn(WarningDetails, "user details unavailable")
		}
		booker = u
	}
	if booker != nil {
		details.User = booker.Summary()
	}
	return &details
}
