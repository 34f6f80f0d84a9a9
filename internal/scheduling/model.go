package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Layouts for the wire/date formats used throughout the scheduler.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// AppointmentStatus is the lifecycle state of a booked appointment.
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// Appointment is a persisted reservation of a slot. Appointments are never
// physically deleted; cancellation is a status change that retains history.
type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	SubjectID       string            `json:"subject_id"`
	ContactHandle   string            `json:"contact_handle"`
	Date            string            `json:"date"`       // YYYY-MM-DD
	StartTime       string            `json:"start_time"` // HH:MM
	DurationMinutes int               `json:"duration_minutes"`
	TreatmentType   string            `json:"treatment_type"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TimeSlot is a derived, never-persisted candidate appointment window.
type TimeSlot struct {
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	TreatmentType   string `json:"treatment_type"`
	Available       bool   `json:"available"`
}

// BookingRequest carries the caller-supplied fields for a new appointment.
type BookingRequest struct {
	SubjectID     string `json:"subject_id"`
	ContactHandle string `json:"contact_handle"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	TreatmentType string `json:"treatment_type"`
	Notes         string `json:"notes"`
}
