package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thewellnesslondon/wellness-connect/internal/followups"
	"github.com/thewellnesslondon/wellness-connect/internal/scheduling"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

// FollowUpScheduler queues educational content for a contact after a delay.
type FollowUpScheduler interface {
	ScheduleFollowUp(ctx context.Context, contactHandle, category string, kind followups.Kind, delay time.Duration) error
}

// SchedulingHandler exposes availability and appointment lifecycle over HTTP.
type SchedulingHandler struct {
	scheduler     *scheduling.Scheduler
	followUps     FollowUpScheduler
	followUpDelay time.Duration
	logger        *logging.Logger
}

// NewSchedulingHandler creates a scheduling handler.
func NewSchedulingHandler(scheduler *scheduling.Scheduler, logger *logging.Logger) *SchedulingHandler {
	if scheduler == nil {
		panic("handlers: scheduler required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SchedulingHandler{scheduler: scheduler, logger: logger}
}

// WithFollowUps enables treatment-preparation follow-ups after bookings.
func (h *SchedulingHandler) WithFollowUps(f FollowUpScheduler, delay time.Duration) *SchedulingHandler {
	h.followUps = f
	h.followUpDelay = delay
	return h
}

// Availability lists open slots for a date and treatment.
// GET /api/appointments/availability?date=2026-03-10&treatment_type=prp
func (h *SchedulingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	treatmentType := r.URL.Query().Get("treatment_type")

	slots, err := h.scheduler.CheckAvailability(r.Context(), date, treatmentType)
	if err != nil {
		h.writeSchedulingError(w, err, "availability check failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date,
		"slots": slots,
		"count": len(slots),
	})
}

// Book creates an appointment if the slot is still free.
// POST /api/appointments
func (h *SchedulingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req scheduling.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SubjectID == "" {
		writeError(w, http.StatusBadRequest, "subject_id is required")
		return
	}

	appt, err := h.scheduler.BookAppointment(r.Context(), req)
	if err != nil {
		h.writeSchedulingError(w, err, "booking failed")
		return
	}

	// Queue preparation content for the treatment; the booking stands either way.
	if h.followUps != nil && appt.ContactHandle != "" {
		if err := h.followUps.ScheduleFollowUp(r.Context(), appt.ContactHandle, appt.TreatmentType, followups.KindTreatmentInfo, h.followUpDelay); err != nil {
			h.logger.Error("failed to schedule booking follow-up", "appointment_id", appt.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, appt)
}

// RescheduleRequest carries the replacement slot.
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

// Reschedule moves an existing appointment to a new slot.
// POST /api/appointments/{id}/reschedule
func (h *SchedulingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := h.scheduler.HandleReschedule(r.Context(), id, req.Date, req.StartTime)
	if err != nil {
		h.writeSchedulingError(w, err, "reschedule failed")
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// CancelRequest carries the optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel marks an appointment cancelled, freeing its slot.
// POST /api/appointments/{id}/cancel
func (h *SchedulingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req CancelRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	appt, err := h.scheduler.CancelAppointment(r.Context(), id, req.Reason)
	if err != nil {
		h.writeSchedulingError(w, err, "cancellation failed")
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// DailySchedule lists all appointments on a date, for staff.
// GET /admin/schedule/{date}
func (h *SchedulingHandler) DailySchedule(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	appts, err := h.scheduler.GetDailySchedule(r.Context(), date)
	if err != nil {
		h.writeSchedulingError(w, err, "daily schedule failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":         date,
		"appointments": appts,
		"count":        len(appts),
	})
}

func (h *SchedulingHandler) writeSchedulingError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case scheduling.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "requested slot is no longer available")
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
