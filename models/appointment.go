package models

import "time"

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment is the durable artifact produced by a completed booking session.
type Appointment struct {
	ID                string    `bson:"id" json:"id"`
	UserID            string    `bson:"user_id" json:"userId"`
	InstructorID      string    `bson:"instructor_id" json:"instructorId"`
	AppointmentTypeID string    `bson:"appointment_type_id" json:"appointmentTypeId"`
	Date              string    `bson:"date" json:"date"`   // "2006-01-02"
	Start             int       `bson:"start" json:"start"` // minutes from midnight
	End               int       `bson:"end" json:"end"`     // minutes from midnight
	Duration          int       `bson:"duration" json:"duration"`
	Status            string    `bson:"status" json:"status"`
	MeetingType       string    `bson:"meeting_type" json:"meetingType"`
	Location          string    `bson:"location,omitempty" json:"location,omitempty"`
	Title             string    `bson:"title" json:"title"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Notes             string    `bson:"notes,omitempty" json:"notes,omitempty"`
	SessionID         string    `bson:"session_id,omitempty" json:"-"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
}

// StartsAt anchors the appointment start to an absolute instant in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return SlotInstant(a.Date, a.Start, loc)
}

// AppointmentDetails is an appointment with denormalized participant and type detail.
type AppointmentDetails struct {
	Appointment
	StartTime  string                  `json:"startTime"`
	EndTime    string                  `json:"endTime"`
	Instructor *UserSummary            `json:"instructor,omitempty"`
	User       *UserSummary            `json:"user,omitempty"`
	Type       *AppointmentTypeSummary `json:"type,omitempty"`
}

// NewAppointmentDetails wraps appt with its formatted times.
func NewAppointmentDetails(appt Appointment) AppointmentDetails {
	return AppointmentDetails{
		Appointment: appt,
		StartTime:   FormatClock(appt.Start),
		EndTime:     FormatClock(appt.End),
	}
}
