package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

// renderer compiles small text templates for outbound messaging with strict
// missing-key semantics, so a template drift fails loudly instead of sending
// a half-filled message.
type renderer struct{}

func (renderer) Render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("notify: template text required")
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("notify: parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: execute template: %w", err)
	}
	return buf.String(), nil
}

const bookingConfirmationTemplate = `*Appointment Confirmation*

Hello! Your appointment has been scheduled:

Date: {{.Date}} at {{.StartTime}}
Duration: {{.DurationMinutes}} minutes
Treatment: {{.Treatment}}
Booking ID: #{{.BookingID}}

Location: {{.BusinessName}}, {{.BusinessAddress}}
Contact: reply to this message for any changes

Please arrive 10 minutes early and bring a valid ID.
Cancel at least 24 hours in advance if needed.`

const rescheduleConfirmationTemplate = `*Appointment Rescheduled*

Your appointment has been successfully rescheduled:

New date: {{.Date}} at {{.StartTime}}
Treatment: {{.Treatment}}
Booking ID: #{{.BookingID}}

Thank you for letting us know. See you soon!`

const cancellationNoticeTemplate = `*Appointment Cancelled*

Your appointment has been cancelled:

Booking ID: #{{.BookingID}}
Date: {{.Date}} at {{.StartTime}}

If you'd like to reschedule, reply here or call us on {{.BusinessPhone}}.`

const reminderTemplate = `*Appointment Reminder*

This is a friendly reminder about your appointment tomorrow:

Date: {{.Date}} at {{.StartTime}}
Treatment: {{.Treatment}}
Booking ID: #{{.BookingID}}

Please arrive 10 minutes early, bring a valid ID, and reply if you need to reschedule.`
