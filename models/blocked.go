package models

import "time"

// TimeBlock is one-off unavailability for an instructor on a specific date.
type TimeBlock struct {
	ID           string    `bson:"id" json:"id"`
	InstructorID string    `bson:"instructor_id" json:"instructorId"`
	Date         string    `bson:"date" json:"date"`   // "2006-01-02"
	Start        int       `bson:"start" json:"start"` // minutes from midnight
	End          int       `bson:"end" json:"end"`     // minutes from midnight
	Blocked      bool      `bson:"blocked" json:"blocked"`
	Reason       string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
