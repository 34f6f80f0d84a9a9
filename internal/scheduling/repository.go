package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the store contract for appointments. Implementations
// MUST make CreateIfSlotFree atomic: under concurrent bookings for the same
// (date, start_time) exactly one insert succeeds and the rest observe
// ErrSlotUnavailable. The same guarantee applies to Reschedule's target slot.
// CreateIfSlotFree assigns the appointment id and writes it back onto appt.
type Repository interface {
	CreateIfSlotFree(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, newDate, newStartTime string) (*Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error)
	BookedStartTimes(ctx context.Context, date string) (map[string]bool, error)
	ListByDate(ctx context.Context, date string) ([]*Appointment, error)
}

// InMemoryRepository keeps appointments in maps guarded by one mutex, which
// makes the check-and-insert pair atomic. Used by tests and local runs.
type InMemoryRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*Appointment
	// slots indexes active (non-cancelled) reservations by date+"T"+time.
	slots map[string]uuid.UUID
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appointments: make(map[uuid.UUID]*Appointment),
		slots:        make(map[string]uuid.UUID),
	}
}

func slotKey(date, startTime string) string {
	return date + "T" + startTime
}

// CreateIfSlotFree assigns an id and inserts the appointment unless an
// active reservation already holds the slot.
func (r *InMemoryRepository) CreateIfSlotFree(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(appt.Date, appt.StartTime)
	if _, taken := r.slots[key]; taken {
		return ErrSlotUnavailable
	}

	now := time.Now().UTC()
	appt.ID = uuid.New()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	stored := *appt
	r.appointments[appt.ID] = &stored
	r.slots[key] = appt.ID
	return nil
}

// GetByID returns a copy of the stored appointment.
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

// Reschedule moves the appointment to the new slot if it is free. The old
// slot is released in the same critical section.
func (r *InMemoryRepository) Reschedule(ctx context.Context, id uuid.UUID, newDate, newStartTime string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	newKey := slotKey(newDate, newStartTime)
	if holder, taken := r.slots[newKey]; taken && holder != id {
		return nil, ErrSlotUnavailable
	}

	if appt.Status != StatusCancelled {
		delete(r.slots, slotKey(appt.Date, appt.StartTime))
	}
	appt.Date = newDate
	appt.StartTime = newStartTime
	appt.Status = StatusRescheduled
	appt.UpdatedAt = time.Now().UTC()
	r.slots[newKey] = id

	copied := *appt
	return &copied, nil
}

// Cancel releases the slot and records the reason. Re-cancelling is a no-op
// status rewrite, not an error.
func (r *InMemoryRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	if appt.Status != StatusCancelled {
		delete(r.slots, slotKey(appt.Date, appt.StartTime))
	}
	appt.Status = StatusCancelled
	appt.Notes = reason
	appt.UpdatedAt = time.Now().UTC()

	copied := *appt
	return &copied, nil
}

// BookedStartTimes returns the active start times for a date.
func (r *InMemoryRepository) BookedStartTimes(ctx context.Context, date string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booked := make(map[string]bool)
	for _, appt := range r.appointments {
		if appt.Date == date && appt.Status != StatusCancelled {
			booked[appt.StartTime] = true
		}
	}
	return booked, nil
}

// ListByDate returns the date's non-cancelled appointments ordered by start time.
func (r *InMemoryRepository) ListByDate(ctx context.Context, date string) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Appointment
	for _, appt := range r.appointments {
		if appt.Date == date && appt.Status != StatusCancelled {
			copied := *appt
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// SetStatus flips an appointment's status directly. Test and staff-tool helper.
func (r *InMemoryRepository) SetStatus(id uuid.UUID, status AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.Status = status
	appt.UpdatedAt = time.Now().UTC()
	return nil
}
