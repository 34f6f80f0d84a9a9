package scheduling

import "errors"

var (
	// ErrInvalidDate is returned when a date does not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrDateInPast is returned when a booking targets a date before today.
	ErrDateInPast = errors.New("date is in the past")

	// ErrInvalidTime is returned when a start time does not parse as HH:MM.
	ErrInvalidTime = errors.New("invalid start time")

	// ErrUnknownTreatment is returned when the treatment type has no duration entry.
	ErrUnknownTreatment = errors.New("unknown treatment type")

	// ErrSlotUnavailable is returned when the requested slot is already taken.
	// Callers offer alternate times instead of re-prompting for input.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrAppointmentNotFound is returned for reschedule/cancel on an unknown id.
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// IsInvalidInput reports whether err is a validation failure, as opposed to
// a conflict or a store error. The distinction drives caller behavior: bad
// input means re-prompt, a conflict means offer another slot.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrDateInPast) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrUnknownTreatment)
}
