package booking

import (
	"context"
	"time"

	schedulerRepo "edubooking/database/repository/scheduler"
	"edubooking/models"

	"go.uber.org/zap"
)

// Unavailability reasons, in check order.
const (
	ReasonBooked       = "already booked"
	ReasonNoRule       = "not available this day"
	ReasonOutsideHours = "outside working hours"
	ReasonBlocked      = "blocked by instructor"
	ReasonUnverified   = "availability could not be verified"
	ReasonInvalidSlot  = "invalid time slot"
)

// Availability result codes.
const (
	AvailabilityBooked       = "booked"
	AvailabilityNoRule       = "no_rule"
	AvailabilityOutsideHours = "outside_hours"
	AvailabilityBlocked      = "blocked"
	AvailabilityUnverified   = "unverified"
	AvailabilityInvalid      = "invalid_slot"
)

// AvailabilityRequest names a candidate slot. Start and End are minutes from midnight.
type AvailabilityRequest struct {
	InstructorID string
	Date         string
	Start        int
	End          int
}

// AvailabilityResult reports the first condition blocking a slot, if any.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Code      string `json:"code,omitempty"`
	Err       error  `json:"-"`
}

// AvailabilityChecker evaluates a slot against appointments, weekly rules and time blocks.
type AvailabilityChecker struct {
	appointments schedulerRepo.AppointmentRepository
	availability schedulerRepo.AvailabilityRepository
	loc          *time.Location
	logger       *zap.Logger
}

func NewAvailabilityChecker(appointments schedulerRepo.AppointmentRepository, availability schedulerRepo.AvailabilityRepository, loc *time.Location, logger *zap.Logger) *AvailabilityChecker {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityChecker{
		appointments: appointments,
		availability: availability,
		loc:          loc,
		logger:       logger,
	}
}

var _ AvailabilityService = (*AvailabilityChecker)(nil)

func unavailable(code, reason string) AvailabilityResult {
	return AvailabilityResult{Available: false, Code: code, Reason: reason}
}

// unverified fails closed: a lookup error never reads as an open slot.
func (c *AvailabilityChecker) unverified(req AvailabilityRequest, source string, err error) AvailabilityResult {
	c.logger.Error("Availability lookup failed",
		zap.String("source", source),
		zap.String("instructorID", req.InstructorID),
		zap.String("date", req.Date),
		zap.Error(err),
	)
	return AvailabilityResult{Available: false, Code: AvailabilityUnverified, Reason: ReasonUnverified, Err: err}
}

// Check runs the conflict, working-hours and block scans in order and stops at the first failure.
func (c *AvailabilityChecker) Check(ctx context.Context, req AvailabilityRequest) AvailabilityResult {
	day, err := models.ParseDate(req.Date, c.loc)
	if err != nil || req.InstructorID == "" || req.Start < 0 || req.Start >= req.End {
		return unavailable(AvailabilityInvalid, ReasonInvalidSlot)
	}

	booked, err := c.appointments.FindOverlappingAppointments(ctx, req.InstructorID, req.Date, req.Start, req.End)
	if err != nil {
		return c.unverified(req, "appointments", err)
	}
	if len(booked) > 0 {
		return unavailable(AvailabilityBooked, ReasonBooked)
	}

	rules, err := c.availability.GetActiveRules(ctx, req.InstructorID, day.Weekday())
	if err != nil {
		return c.unverified(req, "availability_rules", err)
	}
	if len(rules) == 0 {
		return unavailable(AvailabilityNoRule, ReasonNoRule)
	}
	covered := false
	for _, r := range rules {
		if r.Active && r.Covers(req.Start, req.End) {
			covered = true
			break
		}
	}
	if !covered {
		return unavailable(AvailabilityOutsideHours, ReasonOutsideHours)
	}

	blocks, err := c.availability.GetActiveBlocks(ctx, req.InstructorID, req.Date)
	if err != nil {
		return c.unverified(req, "time_blocks", err)
	}
	for _, b := range blocks {
		if b.Blocked && models.Overlaps(b.Start, b.End, req.Start, req.End) {
			return unavailable(AvailabilityBlocked, ReasonBlocked)
		}
	}

	return AvailabilityResult{Available: true}
}
