package booking

import (
	"time"

	"edubooking/models"

	"github.com/go-playground/validator/v10"
)

// Field names reported in missing-field errors.
const (
	FieldInstructor      = "instructorId"
	FieldAppointmentType = "appointmentTypeId"
	FieldDate            = "date"
	FieldStartTime       = "startTime"
	FieldEndTime         = "endTime"
	FieldDuration        = "duration"
	FieldMeetingType     = "meetingType"
	FieldContactEmail    = "contact.email"
)

func stepIndex(step models.Step) int {
	for i, s := range models.Steps {
		if s == step {
			return i
		}
	}
	return -1
}

// ValidStep reports whether step belongs to the wizard.
func ValidStep(step models.Step) bool {
	return stepIndex(step) >= 0
}

// missingForStep lists the fields a step owns that are still absent from d.
func missingForStep(step models.Step, d models.BookingDetails, anonymous bool) []string {
	var missing []string
	switch step {
	case models.StepInstructorSelection:
		if d.InstructorID == "" {
			missing = append(missing, FieldInstructor)
		}
	case models.StepTypeSelection:
		if d.AppointmentTypeID == "" {
			missing = append(missing, FieldAppointmentType)
		}
	case models.StepTimeSelection:
		if d.Date == "" {
			missing = append(missing, FieldDate)
		}
		if d.StartTime == "" {
			missing = append(missing, FieldStartTime)
		}
		if d.EndTime == "" {
			missing = append(missing, FieldEndTime)
		}
		if d.Duration == 0 {
			missing = append(missing, FieldDuration)
		}
	case models.StepDetails:
		if d.MeetingType == "" {
			missing = append(missing, FieldMeetingType)
		}
		if anonymous && (d.Contact == nil || d.Contact.Email == "") {
			missing = append(missing, FieldContactEmail)
		}
	}
	return missing
}

// missingFields lists every field required before a session can be completed.
func missingFields(d models.BookingDetails, anonymous bool) []string {
	var missing []string
	for _, step := range models.Steps {
		missing = append(missing, missingForStep(step, d, anonymous)...)
	}
	return missing
}

// parseSlot validates the time-selection fields and returns the slot they describe.
func parseSlot(d models.BookingDetails) (models.Slot, error) {
	if _, err := models.ParseDate(d.Date, time.UTC); err != nil {
		return models.Slot{}, newValidationError(CodeInvalidSlot, "date must be formatted YYYY-MM-DD")
	}
	start, err := models.ParseClock(d.StartTime)
	if err != nil {
		return models.Slot{}, newValidationError(CodeInvalidSlot, "start time must be formatted HH:MM")
	}
	end, err := models.ParseClock(d.EndTime)
	if err != nil {
		return models.Slot{}, newValidationError(CodeInvalidSlot, "end time must be formatted HH:MM")
	}
	if start >= end {
		return models.Slot{}, newValidationError(CodeInvalidSlot, "start time must be before end time")
	}
	if d.Duration <= 0 {
		return models.Slot{}, newValidationError(CodeInvalidSlot, "duration must be positive")
	}
	if d.Duration != end-start {
		return models.Slot{}, newValidationError(CodeInvalidSlot, "duration does not match the selected time range")
	}
	return models.Slot{InstructorID: d.InstructorID, Date: d.Date, Start: start, End: end}, nil
}

func validateContact(v *validator.Validate, c *models.ContactDetails) error {
	if c == nil {
		return nil
	}
	if err := v.Struct(c); err != nil {
		return newValidationError(CodeInvalidContact, "contact email is not a valid address")
	}
	return nil
}

// stepDone reports whether from counts as completed by this update: the session moved
// forward past it, or stayed on it with every field it owns present.
func stepDone(from, to models.Step, d models.BookingDetails, anonymous bool) bool {
	fromIdx, toIdx := stepIndex(from), stepIndex(to)
	if toIdx > fromIdx {
		return true
	}
	return toIdx == fromIdx && len(missingForStep(from, d, anonymous)) == 0
}

// checkTransition allows staying, going back to any earlier step, or advancing by
// exactly one step once the step being left has everything it owns.
func checkTransition(v *validator.Validate, from, to models.Step, d models.BookingDetails, anonymous bool) error {
	toIdx := stepIndex(to)
	if toIdx < 0 {
		return newValidationError(CodeInvalidStep, "unknown booking step "+string(to))
	}
	fromIdx := stepIndex(from)
	if toIdx <= fromIdx {
		return nil
	}
	if toIdx > fromIdx+1 {
		return newValidationError(CodeInvalidStep, "booking steps cannot be skipped")
	}

	if missing := missingForStep(from, d, anonymous); len(missing) > 0 {
		return newMissingFieldsError(missing)
	}
	switch from {
	case models.StepTimeSelection:
		if _, err := parseSlot(d); err != nil {
			return err
		}
	case models.StepDetails:
		if anonymous {
			if err := v.Var(d.Contact.Email, "required,email"); err != nil {
				return newValidationError(CodeInvalidContact, "contact email is not a valid address")
			}
		}
	}
	return nil
}
