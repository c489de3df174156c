package models

import (
	"encoding/json"
	"time"
)

// Step is a position in the booking wizard.
type Step string

const (
	StepInstructorSelection Step = "instructor_selection"
	StepTypeSelection       Step = "type_selection"
	StepTimeSelection       Step = "time_selection"
	StepDetails             Step = "details"
	StepConfirmation        Step = "confirmation"
)

// Steps lists the wizard steps in order.
var Steps = []Step{
	StepInstructorSelection,
	StepTypeSelection,
	StepTimeSelection,
	StepDetails,
	StepConfirmation,
}

// BookingSession holds partial booking state between wizard steps.
// A session is owned by either OwnerID or the anonymous token whose hash is TokenHash, never both.
type BookingSession struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId,omitempty"`
	TokenHash   string         `json:"tokenHash,omitempty"`
	CurrentStep Step           `json:"currentStep"`
	Data        BookingDetails `json:"data"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Anonymous reports whether the session belongs to a token holder rather than a user.
func (s BookingSession) Anonymous() bool {
	return s.OwnerID == ""
}

// Expired reports whether the session is unusable at now.
func (s BookingSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// BookingDetails is the accreting payload gathered by the wizard.
// Zero-valued fields are treated as absent when merging.
type BookingDetails struct {
	InstructorID      string          `json:"instructorId,omitempty"`
	AppointmentTypeID string          `json:"appointmentTypeId,omitempty"`
	Date              string          `json:"date,omitempty"`      // "2006-01-02"
	StartTime         string          `json:"startTime,omitempty"` // "15:04"
	EndTime           string          `json:"endTime,omitempty"`   // "15:04"
	Duration          int             `json:"duration,omitempty"`  // minutes
	MeetingType       string          `json:"meetingType,omitempty"`
	Location          string          `json:"location,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Contact           *ContactDetails `json:"contact,omitempty"`
	CompletedSteps    []Step          `json:"completedSteps,omitempty"`
}

// ContactDetails are supplied by anonymous bookers.
type ContactDetails struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// Merge applies the non-empty top-level fields of partial onto d.
// CompletedSteps is owned by the session store and never taken from partial.
func (d BookingDetails) Merge(partial BookingDetails) BookingDetails {
	out := d
	if partial.InstructorID != "" {
		out.InstructorID = partial.InstructorID
	}
	if partial.AppointmentTypeID != "" {
		out.AppointmentTypeID = partial.AppointmentTypeID
	}
	if partial.Date != "" {
		out.Date = partial.Date
	}
	if partial.StartTime != "" {
		out.StartTime = partial.StartTime
	}
	if partial.EndTime != "" {
		out.EndTime = partial.EndTime
	}
	if partial.Duration != 0 {
		out.Duration = partial.Duration
	}
	if partial.MeetingType != "" {
		out.MeetingType = partial.MeetingType
	}
	if partial.Location != "" {
		out.Location = partial.Location
	}
	if partial.Notes != "" {
		out.Notes = partial.Notes
	}
	if partial.Contact != nil {
		c := *partial.Contact
		out.Contact = &c
	}
	out.CompletedSteps = append([]Step(nil), d.CompletedSteps...)
	return out
}

// Clear zeroes the named top-level fields, keyed by their JSON names.
// Unknown names and completedSteps are ignored.
func (d BookingDetails) Clear(fields ...string) BookingDetails {
	out := d
	for _, f := range fields {
		switch f {
		case "instructorId":
			out.InstructorID = ""
		case "appointmentTypeId":
			out.AppointmentTypeID = ""
		case "date":
			out.Date = ""
		case "startTime":
			out.StartTime = ""
		case "endTime":
			out.EndTime = ""
		case "duration":
			out.Duration = 0
		case "meetingType":
			out.MeetingType = ""
		case "location":
			out.Location = ""
		case "notes":
			out.Notes = ""
		case "contact":
			out.Contact = nil
		}
	}
	return out
}

// DetailsPatch is a partial BookingDetails decoded from a client payload, remembering
// which keys were sent so that an explicit empty value or null clears the field.
type DetailsPatch struct {
	BookingDetails
	present map[string]bool
}

func (p *DetailsPatch) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &p.BookingDetails); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	p.present = make(map[string]bool, len(keys))
	for k := range keys {
		p.present[k] = true
	}
	return nil
}

// Cleared lists the keys that were sent with an empty value.
func (p DetailsPatch) Cleared() []string {
	var out []string
	for _, k := range []string{"instructorId", "appointmentTypeId", "date", "startTime", "endTime", "duration", "meetingType", "location", "notes", "contact"} {
		if p.present[k] && isZeroField(p.BookingDetails, k) {
			out = append(out, k)
		}
	}
	return out
}

func isZeroField(d BookingDetails, key string) bool {
	switch key {
	case "instructorId":
		return d.InstructorID == ""
	case "appointmentTypeId":
		return d.AppointmentTypeID == ""
	case "date":
		return d.Date == ""
	case "startTime":
		return d.StartTime == ""
	case "endTime":
		return d.EndTime == ""
	case "duration":
		return d.Duration == 0
	case "meetingType":
		return d.MeetingType == ""
	case "location":
		return d.Location == ""
	case "notes":
		return d.Notes == ""
	case "contact":
		return d.Contact == nil
	}
	return false
}

// HasCompleted reports whether step is already recorded as completed.
func (d BookingDetails) HasCompleted(step Step) bool {
	for _, s := range d.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// BookingSessionView is the client-facing projection of a session.
type BookingSessionView struct {
	ID          string         `json:"id"`
	CurrentStep Step           `json:"currentStep"`
	Data        BookingDetails `json:"data"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	Token       string         `json:"token,omitempty"`
}

// ToView strips ownership material from a session. token is set only when it was just issued.
func (s BookingSession) ToView(token string) BookingSessionView {
	return BookingSessionView{
		ID:          s.ID,
		CurrentStep: s.CurrentStep,
		Data:        s.Data,
		ExpiresAt:   s.ExpiresAt,
		Token:       token,
	}
}
