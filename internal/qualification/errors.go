package qualification

import "errors"

var (
	// ErrMissingSubjectID is returned when an assessment arrives without a subject.
	ErrMissingSubjectID = errors.New("subject id is required")

	// ErrProfileNotFound is returned when no profile exists for a subject.
	ErrProfileNotFound = errors.New("subject profile not found")

	// ErrQualificationNotFound is returned when a subject has no stored qualification.
	ErrQualificationNotFound = errors.New("qualification not found")
)
