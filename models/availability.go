package models

import "time"

// AvailabilityRule is a recurring weekly open-hours window for an instructor.
type AvailabilityRule struct {
	ID           string       `bson:"id" json:"id"`
	InstructorID string       `bson:"instructor_id" json:"instructorId"`
	DayOfWeek    time.Weekday `bson:"day_of_week" json:"dayOfWeek"`
	Start        int          `bson:"start" json:"start"` // minutes from midnight
	End          int          `bson:"end" json:"end"`     // minutes from midnight
	Active       bool         `bson:"active" json:"active"`
}

// Covers reports whether the rule window fully contains [start, end).
func (r AvailabilityRule) Covers(start, end int) bool {
	return r.Start <= start && end <= r.End
}

// Overlaps reports whether two half-open minute intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
