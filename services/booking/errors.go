package booking

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a booking failure for transport mapping.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindValidation
	KindUnauthorized
	KindConflict
	KindDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Machine-readable error codes.
const (
	CodeSessionNotFound    = "session_not_found"
	CodeInvalidToken       = "invalid_token"
	CodeMissingFields      = "missing_fields"
	CodeInvalidSlot        = "invalid_slot"
	CodeInvalidStep        = "invalid_step"
	CodeInvalidContact     = "invalid_contact"
	CodeInvalidType        = "invalid_appointment_type"
	CodeSlotUnavailable    = "slot_unavailable"
	CodeSlotBusy           = "slot_busy"
	CodeAvailabilityFailed = "availability_unverified"
	CodeStorageFailed      = "storage_failure"
	CodeIdentityFailed     = "identity_failure"
)

// BookingError is the structured failure returned by every booking operation.
type BookingError struct {
	Kind          ErrorKind
	Code          string
	Message       string
	MissingFields []string
	Err           error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

// ErrSessionNotFound covers missing, expired and foreign sessions alike.
var ErrSessionNotFound = &BookingError{
	Kind:    KindNotFound,
	Code:    CodeSessionNotFound,
	Message: "booking session not found or expired",
}

func newValidationError(code, msg string) *BookingError {
	return &BookingError{Kind: KindValidation, Code: code, Message: msg}
}

func newMissingFieldsError(fields []string) *BookingError {
	return &BookingError{
		Kind:          KindValidation,
		Code:          CodeMissingFields,
		Message:       "booking session is missing required fields",
		MissingFields: fields,
	}
}

func newUnauthorizedError(msg string) *BookingError {
	return &BookingError{Kind: KindUnauthorized, Code: CodeInvalidToken, Message: msg}
}

func newConflictError(code, msg string) *BookingError {
	return &BookingError{Kind: KindConflict, Code: code, Message: msg}
}

func newDependencyError(code, msg string, err error) *BookingError {
	return &BookingError{Kind: KindDependency, Code: code, Message: msg, Err: err}
}

// AsBookingError extracts a *BookingError from err's chain.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
