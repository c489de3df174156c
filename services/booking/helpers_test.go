package booking

import (
	"sync"
	"testing"
	"time"

	inmemdb "edubooking/database/inmem"
	"edubooking/database/repository"
	"edubooking/models"
	"edubooking/services/notification"
	"edubooking/services/user"

	"go.uber.org/zap"
)

const (
	instructorID = "instructor-1"
	typeID       = "type-1"
	inactiveType = "type-retired"
	slotDate     = "2025-03-10" // a Monday
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	db          *inmemdb.DB
	repos       repository.Repositories
	clock       *testClock
	sessions    *SessionStore
	checker     *AvailabilityChecker
	deps        CompletionDeps
	coordinator *CompletionCoordinator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := inmemdb.NewDB()
	seed(db)

	env := &testEnv{db: db, repos: repository.NewMemoryRepositories(db), clock: newTestClock()}
	logger := zap.NewNop()
	env.sessions = NewSessionStore(env.repos.Sessions, DefaultSessionTTL, logger, env.clock.Now)
	env.checker = NewAvailabilityChecker(env.repos.Appointments, env.repos.Availability, time.UTC, logger)
	env.deps = CompletionDeps{
		Sessions:     env.sessions,
		Types:        env.repos.Types,
		Availability: env.checker,
		Appointments: env.repos.Appointments,
		Users:        env.repos.Users,
		Identity:     user.NewIdentityResolver(env.repos.Users, logger),
		Notifier:     notification.NewNotificationScheduler(env.repos.Notifications, nil, logger, env.clock.Now),
		Locker:       env.repos.Locker,
		Location:     time.UTC,
		Logger:       logger,
		Now:          env.clock.Now,
	}
	env.coordinator = env.newCoordinator(env.deps)
	return env
}

func (env *testEnv) newCoordinator(deps CompletionDeps) *CompletionCoordinator {
	c := NewCompletionCoordinator(deps)
	c.lockBackoff = time.Millisecond
	return c
}

func seed(db *inmemdb.DB) {
	db.AddUser(models.User{ID: instructorID, Email: "tutor@example.org", Name: "Tutor", Role: models.RoleInstructor, Status: models.UserStatusActive, Active: true})
	db.AddUser(models.User{ID: "member-1", Email: "one@example.org", Name: "Member One", Role: models.RoleMember, Status: models.UserStatusActive, Active: true})
	db.AddUser(models.User{ID: "member-2", Email: "two@example.org", Name: "Member Two", Role: models.RoleMember, Status: models.UserStatusActive, Active: true})
	db.AddType(models.AppointmentType{ID: typeID, Name: "Mentoring session", Description: "One-to-one mentoring", DurationMinutes: 60, Active: true})
	db.AddType(models.AppointmentType{ID: inactiveType, Name: "Legacy review", Active: false})
	db.AddRule(models.AvailabilityRule{ID: "rule-1", InstructorID: instructorID, DayOfWeek: time.Monday, Start: 9 * 60, End: 17 * 60, Active: true})
}

// fullSlot is everything the wizard collects for a 14:00-15:00 booking.
func fullSlot() models.BookingDetails {
	return models.BookingDetails{
		InstructorID:      instructorID,
		AppointmentTypeID: typeID,
		Date:              slotDate,
		StartTime:         "14:00",
		EndTime:           "15:00",
		Duration:          60,
		MeetingType:       "online",
		Notes:             "Portfolio review",
	}
}
