package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	inmemdb "edubooking/database/inmem"
	"edubooking/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func mustInsert(t *testing.T, env *testEnv, appt models.Appointment) {
	t.Helper()
	if err := env.repos.Appointments.InsertAppointment(context.Background(), &appt); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
}

func TestAvailabilityCheck(t *testing.T) {
	env := newTestEnv(t)
	mustInsert(t, env, models.Appointment{ID: "a1", InstructorID: instructorID, Date: slotDate, Start: 14 * 60, End: 15 * 60, Status: models.AppointmentStatusPending})
	mustInsert(t, env, models.Appointment{ID: "a2", InstructorID: instructorID, Date: slotDate, Start: 10 * 60, End: 11 * 60, Status: models.AppointmentStatusCancelled})
	env.db.AddBlock(models.TimeBlock{ID: "b1", InstructorID: instructorID, Date: slotDate, Start: 12 * 60, End: 13 * 60, Blocked: true})
	env.db.AddBlock(models.TimeBlock{ID: "b2", InstructorID: instructorID, Date: slotDate, Start: 16 * 60, End: 17 * 60, Blocked: false})

	tests := []struct {
		name       string
		date       string
		start, end int
		wantCode   string
		wantReason string
	}{
		{"exact match with booking", slotDate, 840, 900, AvailabilityBooked, ReasonBooked},
		{"slot contains booking", slotDate, 830, 910, AvailabilityBooked, ReasonBooked},
		{"booking contains slot", slotDate, 850, 880, AvailabilityBooked, ReasonBooked},
		{"partial overlap", slotDate, 870, 930, AvailabilityBooked, ReasonBooked},
		{"adjacent after booking", slotDate, 900, 960, "", ""},
		{"cancelled booking ignored", slotDate, 600, 660, "", ""},
		{"inside rule", slotDate, 540, 600, "", ""},
		{"no rule on sunday", "2025-03-09", 600, 660, AvailabilityNoRule, ReasonNoRule},
		{"starts before hours", slotDate, 480, 570, AvailabilityOutsideHours, ReasonOutsideHours},
		{"ends after hours", slotDate, 990, 1050, AvailabilityOutsideHours, ReasonOutsideHours},
		{"blocked", slotDate, 750, 810, AvailabilityBlocked, ReasonBlocked},
		{"inactive block ignored", slotDate, 960, 1020, "", ""},
		{"bad date", "10-03-2025", 600, 660, AvailabilityInvalid, ReasonInvalidSlot},
		{"empty range", slotDate, 600, 600, AvailabilityInvalid, ReasonInvalidSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.checker.Check(context.Background(), AvailabilityRequest{InstructorID: instructorID, Date: tt.date, Start: tt.start, End: tt.end})
			if tt.wantCode == "" {
				assert.True(t, res.Available, "reason: %s", res.Reason)
				return
			}
			assert.False(t, res.Available)
			assert.Equal(t, tt.wantCode, res.Code)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}
}

func TestAvailabilityReportsFirstFailure(t *testing.T) {
	env := newTestEnv(t)
	// booked, outside hours and blocked at once: the conflict wins
	mustInsert(t, env, models.Appointment{ID: "late", InstructorID: instructorID, Date: slotDate, Start: 1000, End: 1080, Status: models.AppointmentStatusPending})
	env.db.AddBlock(models.TimeBlock{ID: "b", InstructorID: instructorID, Date: slotDate, Start: 1000, End: 1080, Blocked: true})

	res := env.checker.Check(context.Background(), AvailabilityRequest{InstructorID: instructorID, Date: slotDate, Start: 1000, End: 1080})
	assert.Equal(t, AvailabilityBooked, res.Code)
}

// brokenRepo fails the lookup named by failOn and otherwise delegates.
type brokenRepo struct {
	*inmemdb.SchedulerRepository
	failOn string
}

var errBackend = errors.New("connection refused")

func (r brokenRepo) FindOverlappingAppointments(ctx context.Context, instructorID, date string, start, end int) ([]models.Appointment, error) {
	if r.failOn == "appointments" {
		return nil, errBackend
	}
	return r.SchedulerRepository.FindOverlappingAppointments(ctx, instructorID, date, start, end)
}

func (r brokenRepo) GetActiveRules(ctx context.Context, instructorID string, day time.Weekday) ([]models.AvailabilityRule, error) {
	if r.failOn == "rules" {
		return nil, errBackend
	}
	return r.SchedulerRepository.GetActiveRules(ctx, instructorID, day)
}

func (r brokenRepo) GetActiveBlocks(ctx context.Context, instructorID, date string) ([]models.TimeBlock, error) {
	if r.failOn == "blocks" {
		return nil, errBackend
	}
	return r.SchedulerRepository.GetActiveBlocks(ctx, instructorID, date)
}

func TestAvailabilityFailsClosed(t *testing.T) {
	for _, source := range []string{"appointments", "rules", "blocks"} {
		t.Run(source, func(t *testing.T) {
			db := inmemdb.NewDB()
			seed(db)
			repo := brokenRepo{SchedulerRepository: inmemdb.NewSchedulerRepository(db), failOn: source}
			checker := NewAvailabilityChecker(repo, repo, time.UTC, zap.NewNop())

			res := checker.Check(context.Background(), AvailabilityRequest{InstructorID: instructorID, Date: slotDate, Start: 600, End: 660})
			assert.False(t, res.Available)
			assert.Equal(t, AvailabilityUnverified, res.Code)
			assert.Equal(t, ReasonUnverified, res.Reason)
			assert.ErrorIs(t, res.Err, errBackend)
		})
	}
}
