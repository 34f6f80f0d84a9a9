package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/thewellnesslondon/wellness-connect/internal/observability/metrics"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

var schedulerTracer = otel.Tracer("wellness.internal.scheduling")

// Notifier delivers appointment messages to the subject. Delivery is
// best-effort: the scheduler logs failures and keeps its own result.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, appt *Appointment) error
	SendRescheduleConfirmation(ctx context.Context, appt *Appointment) error
	SendCancellationNotice(ctx context.Context, appt *Appointment) error
	SendReminder(ctx context.Context, appt *Appointment) error
}

// Scheduler books appointments against the slot calendar.
type Scheduler struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
	metrics  *metrics.SchedulingMetrics
	now      func() time.Time
}

// NewScheduler constructs a scheduler. notifier and m may be nil.
func NewScheduler(repo Repository, notifier Notifier, logger *logging.Logger, m *metrics.SchedulingMetrics) *Scheduler {
	if repo == nil {
		panic("scheduling: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// CheckAvailability enumerates the free slots for a date. Days without
// business hours yield an empty result. Availability checks exact start-time
// collision only; durations do not block neighboring slots.
func (s *Scheduler) CheckAvailability(ctx context.Context, date, treatmentType string) ([]TimeSlot, error) {
	ctx, span := schedulerTracer.Start(ctx, "scheduling.check_availability")
	defer span.End()
	span.SetAttributes(attribute.String("wellness.date", date))

	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	starts := slotStarts(day.Weekday())
	if len(starts) == 0 {
		return []TimeSlot{}, nil
	}

	duration, _ := DurationFor(treatmentType)

	booked, err := s.repo.BookedStartTimes(ctx, date)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: check availability: %w", err)
	}

	slots := make([]TimeSlot, 0, len(starts))
	for _, start := range starts {
		if booked[start] {
			continue
		}
		slots = append(slots, TimeSlot{
			Date:            date,
			StartTime:       start,
			DurationMinutes: duration,
			TreatmentType:   treatmentType,
			Available:       true,
		})
	}

	s.logger.Debug("availability checked", "date", date, "free_slots", len(slots))
	return slots, nil
}

// BookAppointment validates the request, then reserves the slot through the
// store's atomic insert. Preconditions are checked in order; the first
// failure wins and nothing is written. Confirmation delivery is best-effort.
func (s *Scheduler) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	ctx, span := schedulerTracer.Start(ctx, "scheduling.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("wellness.date", req.Date),
		attribute.String("wellness.treatment_type", req.TreatmentType),
	)

	started := s.now()

	if err := s.validateSlot(req.Date, req.StartTime); err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}
	duration, recognized := DurationFor(req.TreatmentType)
	if !recognized {
		s.metrics.ObserveBooking("invalid")
		return nil, ErrUnknownTreatment
	}

	appt := &Appointment{
		SubjectID:       req.SubjectID,
		ContactHandle:   req.ContactHandle,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		TreatmentType:   req.TreatmentType,
		Status:          StatusPending,
		Notes:           req.Notes,
	}

	if err := s.repo.CreateIfSlotFree(ctx, appt); err != nil {
		if err == ErrSlotUnavailable {
			s.metrics.ObserveBooking("conflict")
			s.logger.Warn("slot no longer available", "date", req.Date, "start_time", req.StartTime)
			return nil, ErrSlotUnavailable
		}
		span.RecordError(err)
		s.metrics.ObserveBooking("error")
		return nil, err
	}

	s.metrics.ObserveBooking("booked")
	s.metrics.ObserveBookingDuration("book", s.now().Sub(started).Seconds())
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"date", appt.Date,
		"start_time", appt.StartTime,
		"treatment_type", appt.TreatmentType,
	)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, appt); err != nil {
			s.logger.Error("failed to send booking confirmation", "appointment_id", appt.ID, "error", err)
		}
	}
	return appt, nil
}

// HandleReschedule moves an existing appointment to a new slot, re-running
// the booking validations with the existing appointment's treatment type.
func (s *Scheduler) HandleReschedule(ctx context.Context, id uuid.UUID, newDate, newStartTime string) (*Appointment, error) {
	ctx, span := schedulerTracer.Start(ctx, "scheduling.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("wellness.appointment_id", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validateSlot(newDate, newStartTime); err != nil {
		return nil, err
	}

	appt, err := s.repo.Reschedule(ctx, id, newDate, newStartTime)
	if err != nil {
		if err != ErrSlotUnavailable && err != ErrAppointmentNotFound {
			span.RecordError(err)
		}
		return nil, err
	}

	s.logger.Info("appointment rescheduled", "appointment_id", id, "date", newDate, "start_time", newStartTime)

	if s.notifier != nil {
		if err := s.notifier.SendRescheduleConfirmation(ctx, appt); err != nil {
			s.logger.Error("failed to send reschedule confirmation", "appointment_id", id, "error", err)
		}
	}
	return appt, nil
}

// CancelAppointment marks the appointment cancelled and records the reason in
// notes, overwriting prior notes. Cancelling twice re-sets the same status
// and is not an error.
func (s *Scheduler) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	ctx, span := schedulerTracer.Start(ctx, "scheduling.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("wellness.appointment_id", id.String()))

	appt, err := s.repo.Cancel(ctx, id, reason)
	if err != nil {
		if err != ErrAppointmentNotFound {
			span.RecordError(err)
		}
		return nil, err
	}

	s.logger.Info("appointment cancelled", "appointment_id", id)

	if s.notifier != nil {
		if err := s.notifier.SendCancellationNotice(ctx, appt); err != nil {
			s.logger.Error("failed to send cancellation notice", "appointment_id", id, "error", err)
		}
	}
	return appt, nil
}

// GetDailySchedule returns the date's non-cancelled appointments ordered by
// start time, for staff views and reminder dispatch.
func (s *Scheduler) GetDailySchedule(ctx context.Context, date string) ([]*Appointment, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.repo.ListByDate(ctx, date)
}

// SendAppointmentReminders dispatches reminders for tomorrow's confirmed
// appointments. Still-pending appointments are skipped: only confirmed
// bookings get reminders. Invoked by the periodic worker.
func (s *Scheduler) SendAppointmentReminders(ctx context.Context) (int, error) {
	tomorrow := s.now().AddDate(0, 0, 1).Format(DateLayout)

	appointments, err := s.GetDailySchedule(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("scheduling: load tomorrow's schedule: %w", err)
	}

	sent := 0
	for _, appt := range appointments {
		if appt.Status != StatusConfirmed {
			continue
		}
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.SendReminder(ctx, appt); err != nil {
			s.metrics.ObserveReminder("failed")
			s.logger.Error("failed to send reminder", "appointment_id", appt.ID, "error", err)
			continue
		}
		s.metrics.ObserveReminder("sent")
		sent++
	}

	s.logger.Info("appointment reminders dispatched", "date", tomorrow, "sent", sent)
	return sent, nil
}

// validateSlot applies the date/time preconditions shared by booking and
// rescheduling: parseable date not before today, parseable time.
func (s *Scheduler) validateSlot(date, startTime string) error {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return ErrInvalidDate
	}
	today, err := time.Parse(DateLayout, s.now().Format(DateLayout))
	if err != nil {
		return ErrInvalidDate
	}
	if day.Before(today) {
		return ErrDateInPast
	}
	if _, err := time.Parse(TimeLayout, startTime); err != nil {
		return ErrInvalidTime
	}
	return nil
}
