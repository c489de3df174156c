package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	lockRepo "edubooking/database/repository/lock"
	recordsRepo "edubooking/database/repository/records"
	schedulerRepo "edubooking/database/repository/scheduler"
	sessionRepo "edubooking/database/repository/session"
	"edubooking/models"
	"edubooking/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingSession(t *testing.T, env *testEnv, id Identity, data models.BookingDetails) (*models.BookingSession, Identity) {
	t.Helper()
	ctx := context.Background()
	s, token, err := env.sessions.Create(ctx, id, "", models.BookingDetails{InstructorID: data.InstructorID, AppointmentTypeID: data.AppointmentTypeID})
	require.NoError(t, err)
	if token != "" {
		id.Token = token
	}
	s, token, err = env.sessions.Update(ctx, s.ID, id, data, nil)
	require.NoError(t, err)
	if token != "" {
		id.Token = token
	}
	return s, id
}

func requireKind(t *testing.T, err error, kind ErrorKind) *BookingError {
	t.Helper()
	be, ok := AsBookingError(err)
	require.True(t, ok, "expected BookingError, got %v", err)
	require.Equal(t, kind, be.Kind, "code %s: %s", be.Code, be.Message)
	return be
}

func TestCompleteScenarioA(t *testing.T) {
	env := newTestEnv(t)
	s, id := bookingSession(t, env, member, fullSlot())

	res, err := env.coordinator.Complete(context.Background(), s.ID, id)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	appts := env.db.Appointments()
	require.Len(t, appts, 1)
	appt := appts[0]
	assert.Equal(t, models.AppointmentStatusPending, appt.Status)
	assert.Equal(t, "Mentoring session", appt.Title)
	assert.Equal(t, "One-to-one mentoring", appt.Description)
	assert.Equal(t, "member-1", appt.UserID)
	assert.Equal(t, 840, appt.Start)
	assert.Equal(t, 900, appt.End)
	assert.Equal(t, 60, appt.Duration)
	assert.Equal(t, s.ID, appt.SessionID)

	require.NotNil(t, res.Appointment)
	assert.Equal(t, appt.ID, res.Appointment.ID)
	assert.Equal(t, "14:00", res.Appointment.StartTime)
	assert.Equal(t, "15:00", res.Appointment.EndTime)
	require.NotNil(t, res.Appointment.Instructor)
	assert.Equal(t, "Tutor", res.Appointment.Instructor.Name)
	require.NotNil(t, res.Appointment.User)
	assert.Equal(t, "member-1", res.Appointment.User.ID)
	require.NotNil(t, res.Appointment.Type)
	assert.Equal(t, typeID, res.Appointment.Type.ID)

	notes := env.db.Notifications()
	require.Len(t, notes, 3)
	want := map[models.NotificationKind]time.Time{
		models.NotificationConfirmation: env.clock.Now(),
		models.NotificationReminder24h:  time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC),
		models.NotificationReminder1h:   time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC),
	}
	for _, n := range notes {
		assert.True(t, want[n.Kind].Equal(n.ScheduledAt), "%s scheduled at %s", n.Kind, n.ScheduledAt)
		assert.Equal(t, appt.ID, n.AppointmentID)
		assert.False(t, n.Sent)
	}

	stored, err := env.repos.Appointments.GetAppointmentByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt, *stored)
	persisted, err := env.repos.Notifications.GetByAppointmentID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, res.Notifications, persisted)

	assert.False(t, env.db.HasSession(s.ID))
	_, err = env.sessions.Get(context.Background(), s.ID, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompleteScenarioBSecondCompletionConflicts(t *testing.T) {
	env := newTestEnv(t)
	first, firstID := bookingSession(t, env, member, fullSlot())
	second, secondID := bookingSession(t, env, Identity{UserID: "member-2"}, fullSlot())

	_, err := env.coordinator.Complete(context.Background(), first.ID, firstID)
	require.NoError(t, err)

	_, err = env.coordinator.Complete(context.Background(), second.ID, secondID)
	be := requireKind(t, err, KindConflict)
	assert.Equal(t, CodeSlotUnavailable, be.Code)

	assert.Len(t, env.db.Appointments(), 1)
	assert.True(t, env.db.HasSession(second.ID), "rejected sessions stay for a retry")
}

func TestCompleteScenarioCBindsExistingPendingAccount(t *testing.T) {
	env := newTestEnv(t)
	env.db.AddUser(models.User{ID: "pending-1", Email: "learner@example.org", Status: models.UserStatusPending})
	before := len(env.db.Users())

	data := fullSlot()
	data.Contact = &models.ContactDetails{Name: "Learner", Email: "Learner@Example.org"}
	s, id := bookingSession(t, env, Identity{}, data)

	res, err := env.coordinator.Complete(context.Background(), s.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "pending-1", res.Appointment.UserID)
	assert.Equal(t, "pending-1", res.Appointment.User.ID)
	assert.Len(t, env.db.Users(), before)
}

func TestCompleteAnonymousProvisionsPendingAccount(t *testing.T) {
	env := newTestEnv(t)
	before := len(env.db.Users())

	data := fullSlot()
	data.Contact = &models.ContactDetails{Name: "New Learner", Email: "new@example.org"}
	s, id := bookingSession(t, env, Identity{}, data)

	res, err := env.coordinator.Complete(context.Background(), s.ID, id)
	require.NoError(t, err)
	assert.Len(t, env.db.Users(), before+1)
	assert.Equal(t, "new@example.org", res.Appointment.User.Email)
}

func TestCompleteMissingFields(t *testing.T) {
	env := newTestEnv(t)
	for _, field := range []string{FieldInstructor, FieldAppointmentType, FieldDate, FieldStartTime, FieldEndTime, FieldDuration, FieldMeetingType} {
		t.Run(field, func(t *testing.T) {
			data := fullSlot()
			switch field {
			case FieldInstructor:
				data.InstructorID = ""
			case FieldAppointmentType:
				data.AppointmentTypeID = ""
			case FieldDate:
				data.Date = ""
			case FieldStartTime:
				data.StartTime = ""
			case FieldEndTime:
				data.EndTime = ""
			case FieldDuration:
				data.Duration = 0
			case FieldMeetingType:
				data.MeetingType = ""
			}
			s, _, err := env.sessions.Create(context.Background(), member, "", data)
			require.NoError(t, err)

			_, err = env.coordinator.Complete(context.Background(), s.ID, member)
			be := requireKind(t, err, KindValidation)
			assert.Equal(t, CodeMissingFields, be.Code)
			assert.Equal(t, []string{field}, be.MissingFields)
		})
	}
	assert.Empty(t, env.db.Appointments())
}

func TestCompleteAnonymousRequiresContactEmail(t *testing.T) {
	env := newTestEnv(t)
	s, id := bookingSession(t, env, Identity{}, fullSlot())

	_, err := env.coordinator.Complete(context.Background(), s.ID, id)
	be := requireKind(t, err, KindValidation)
	assert.Equal(t, []string{FieldContactEmail}, be.MissingFields)
}

// checkerSpy records whether availability was consulted.
type checkerSpy struct {
	calls  int
	result AvailabilityResult
}

func (c *checkerSpy) Check(context.Context, AvailabilityRequest) AvailabilityResult {
	c.calls++
	return c.result
}

func TestCompleteZeroDurationRejectedBeforeAvailability(t *testing.T) {
	env := newTestEnv(t)
	spy := &checkerSpy{result: AvailabilityResult{Available: true}}
	deps := env.deps
	deps.Availability = spy
	coordinator := env.newCoordinator(deps)

	data := fullSlot()
	data.EndTime = data.StartTime
	s, _, err := env.sessions.Create(context.Background(), member, "", data)
	require.NoError(t, err)

	_, err = coordinator.Complete(context.Background(), s.ID, member)
	be := requireKind(t, err, KindValidation)
	assert.Equal(t, CodeInvalidSlot, be.Code)
	assert.Zero(t, spy.calls)
	assert.Empty(t, env.db.Appointments())
}

func TestCompleteRejectsInvalidTypes(t *testing.T) {
	env := newTestEnv(t)
	for _, tt := range []struct{ name, typeID string }{{"inactive", inactiveType}, {"unknown", "type-missing"}} {
		t.Run(tt.name, func(t *testing.T) {
			data := fullSlot()
			data.AppointmentTypeID = tt.typeID
			s, _, err := env.sessions.Create(context.Background(), member, "", data)
			require.NoError(t, err)

			_, err = env.coordinator.Complete(context.Background(), s.ID, member)
			be := requireKind(t, err, KindValidation)
			assert.Equal(t, CodeInvalidType, be.Code)
		})
	}
	assert.Empty(t, env.db.Appointments())
}

func TestCompleteUnverifiedAvailabilityIsDependencyFailure(t *testing.T) {
	env := newTestEnv(t)
	deps := env.deps
	deps.Availability = &checkerSpy{result: AvailabilityResult{Code: AvailabilityUnverified, Reason: ReasonUnverified, Err: errBackend}}
	coordinator := env.newCoordinator(deps)

	s, id := bookingSession(t, env, member, fullSlot())
	_, err := coordinator.Complete(context.Background(), s.ID, id)
	be := requireKind(t, err, KindDependency)
	assert.Equal(t, CodeAvailabilityFailed, be.Code)
	assert.ErrorIs(t, err, errBackend)
}

func TestCompleteSlotLockHeld(t *testing.T) {
	env := newTestEnv(t)
	s, id := bookingSession(t, env, member, fullSlot())

	release, err := env.repos.Locker.Acquire(context.Background(), lockRepo.SlotKey(instructorID, slotDate), time.Minute)
	require.NoError(t, err)
	defer release(context.Background())

	_, err = env.coordinator.Complete(context.Background(), s.ID, id)
	be := requireKind(t, err, KindConflict)
	assert.Equal(t, CodeSlotBusy, be.Code)
	assert.Empty(t, env.db.Appointments())
}

// racingAppointments passes the availability read but loses the insert.
type racingAppointments struct {
	schedulerRepo.AppointmentRepository
}

func (racingAppointments) InsertAppointment(context.Context, *models.Appointment) error {
	return schedulerRepo.ErrSlotTaken
}

func TestCompleteInsertRaceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	deps := env.deps
	deps.Appointments = racingAppointments{env.repos.Appointments}
	coordinator := env.newCoordinator(deps)

	s, id := bookingSession(t, env, member, fullSlot())
	_, err := coordinator.Complete(context.Background(), s.ID, id)
	requireKind(t, err, KindConflict)
	assert.True(t, env.db.HasSession(s.ID))
}

type failingNotifier struct{}

func (failingNotifier) Schedule(context.Context, models.Appointment, time.Time) ([]models.NotificationRecord, error) {
	return nil, errors.New("queue unavailable")
}

func TestCompleteNotificationFailureIsWarning(t *testing.T) {
	env := newTestEnv(t)
	deps := env.deps
	deps.Notifier = failingNotifier{}
	coordinator := env.newCoordinator(deps)

	s, id := bookingSession(t, env, member, fullSlot())
	res, err := coordinator.Complete(context.Background(), s.ID, id)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningNotifications, res.Warnings[0].Step)
	assert.Len(t, env.db.Appointments(), 1)
	assert.False(t, env.db.HasSession(s.ID), "cleanup still runs")
}

type stuckDeleteRepo struct {
	sessionRepo.SessionRepository
}

func (stuckDeleteRepo) Delete(context.Context, string) error {
	return errors.New("redis timeout")
}

func TestCompleteCleanupFailureIsWarning(t *testing.T) {
	env := newTestEnv(t)
	store := NewSessionStore(stuckDeleteRepo{env.repos.Sessions}, DefaultSessionTTL, env.deps.Logger, env.clock.Now)
	deps := env.deps
	deps.Sessions = store
	coordinator := env.newCoordinator(deps)

	s, _, err := store.Create(context.Background(), member, "", fullSlot())
	require.NoError(t, err)

	res, err := coordinator.Complete(context.Background(), s.ID, member)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningSessionCleanup, res.Warnings[0].Step)
	assert.Len(t, env.db.Appointments(), 1)
	assert.Len(t, res.Notifications, 3)
}

func TestCompleteExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	s, id := bookingSession(t, env, member, fullSlot())
	env.clock.Advance(3 * time.Hour)

	_, err := env.coordinator.Complete(context.Background(), s.ID, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, env.db.Appointments())
}

// cancelAfterInsert hangs up on the caller as soon as the appointment is committed.
type cancelAfterInsert struct {
	schedulerRepo.AppointmentRepository
	cancel context.CancelFunc
}

func (r cancelAfterInsert) InsertAppointment(ctx context.Context, appt *models.Appointment) error {
	err := r.AppointmentRepository.InsertAppointment(ctx, appt)
	r.cancel()
	return err
}

// ctxRecords and ctxSessions refuse work on a done context, as the database drivers do.
type ctxRecords struct {
	recordsRepo.NotificationRepository
}

func (r ctxRecords) InsertMany(ctx context.Context, records []models.NotificationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.NotificationRepository.InsertMany(ctx, records)
}

type ctxSessions struct {
	sessionRepo.SessionRepository
}

func (r ctxSessions) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.SessionRepository.Delete(ctx, id)
}

func TestCompleteFollowUpsSurviveCallerCancellation(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewSessionStore(ctxSessions{env.repos.Sessions}, DefaultSessionTTL, env.deps.Logger, env.clock.Now)
	deps := env.deps
	deps.Sessions = store
	deps.Appointments = cancelAfterInsert{AppointmentRepository: env.repos.Appointments, cancel: cancel}
	deps.Notifier = notification.NewNotificationScheduler(ctxRecords{env.repos.Notifications}, nil, deps.Logger, env.clock.Now)
	coordinator := env.newCoordinator(deps)

	s, _, err := store.Create(context.Background(), member, "", fullSlot())
	require.NoError(t, err)

	res, err := coordinator.Complete(ctx, s.ID, member)
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.Notifications, 3)
	assert.Len(t, env.db.Appointments(), 1)
	assert.Len(t, env.db.Notifications(), 3)
	assert.False(t, env.db.HasSession(s.ID))
}

func TestLockLeaseOutlivesGuardedWork(t *testing.T) {
	env := newTestEnv(t)
	c := NewCompletionCoordinator(env.deps)
	guarded := 3*5*time.Second + 3*5*time.Second + 10*time.Second
	assert.GreaterOrEqual(t, c.lockTTL, guarded)
}
