package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/thewellnesslondon/wellness-connect/internal/scheduling"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

// Service renders and delivers appointment notifications. It implements
// scheduling.Notifier.
type Service struct {
	messenger       Messenger
	renderer        renderer
	businessName    string
	businessPhone   string
	businessAddress string
	logger          *logging.Logger
}

// NewService constructs a notification service.
func NewService(messenger Messenger, businessName, businessPhone, businessAddress string, logger *logging.Logger) *Service {
	if messenger == nil {
		panic("notify: messenger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if businessName == "" {
		businessName = "The Wellness London"
	}
	return &Service{
		messenger:       messenger,
		businessName:    businessName,
		businessPhone:   businessPhone,
		businessAddress: businessAddress,
		logger:          logger,
	}
}

type appointmentView struct {
	BookingID       string
	Date            string
	StartTime       string
	DurationMinutes int
	Treatment       string
	BusinessName    string
	BusinessPhone   string
	BusinessAddress string
}

func (s *Service) view(appt *scheduling.Appointment) appointmentView {
	return appointmentView{
		BookingID:       appt.ID.String(),
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		DurationMinutes: appt.DurationMinutes,
		Treatment:       treatmentName(appt.TreatmentType),
		BusinessName:    s.businessName,
		BusinessPhone:   s.businessPhone,
		BusinessAddress: s.businessAddress,
	}
}

// SendBookingConfirmation delivers the booking details to the subject.
func (s *Service) SendBookingConfirmation(ctx context.Context, appt *scheduling.Appointment) error {
	return s.send(ctx, "booking_confirmation", bookingConfirmationTemplate, appt)
}

// SendRescheduleConfirmation confirms the new slot to the subject.
func (s *Service) SendRescheduleConfirmation(ctx context.Context, appt *scheduling.Appointment) error {
	return s.send(ctx, "reschedule_confirmation", rescheduleConfirmationTemplate, appt)
}

// SendCancellationNotice tells the subject their appointment was cancelled.
func (s *Service) SendCancellationNotice(ctx context.Context, appt *scheduling.Appointment) error {
	return s.send(ctx, "cancellation_notice", cancellationNoticeTemplate, appt)
}

// SendReminder nudges the subject the day before a confirmed appointment.
func (s *Service) SendReminder(ctx context.Context, appt *scheduling.Appointment) error {
	return s.send(ctx, "appointment_reminder", reminderTemplate, appt)
}

func (s *Service) send(ctx context.Context, name, tmpl string, appt *scheduling.Appointment) error {
	text, err := s.renderer.Render(name, tmpl, s.view(appt))
	if err != nil {
		return err
	}
	if err := s.messenger.Send(ctx, appt.ContactHandle, text); err != nil {
		return fmt.Errorf("notify: send %s: %w", name, err)
	}
	s.logger.Info("notification sent", "kind", name, "appointment_id", appt.ID)
	return nil
}

// treatmentName turns a treatment key into display form ("prp" aside,
// underscores become spaces and words are capitalized).
func treatmentName(treatmentType string) string {
	if treatmentType == "prp" {
		return "PRP"
	}
	words := strings.Split(treatmentType, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
