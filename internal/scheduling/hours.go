package scheduling

import "time"

// slotInterval is the fixed cadence at which slot start times are offered.
const slotInterval = 30 * time.Minute

// defaultDurationMinutes applies when availability is checked for an
// unrecognized treatment type. Booking still rejects unknown types.
const defaultDurationMinutes = 30

type businessWindow struct {
	open  string // HH:MM, first offerable start
	close string // HH:MM, never an offerable start
}

// businessHours covers all seven days; weekends run shorter hours.
var businessHours = map[time.Weekday]businessWindow{
	time.Monday:    {open: "09:00", close: "18:00"},
	time.Tuesday:   {open: "09:00", close: "18:00"},
	time.Wednesday: {open: "09:00", close: "18:00"},
	time.Thursday:  {open: "09:00", close: "18:00"},
	time.Friday:    {open: "09:00", close: "18:00"},
	time.Saturday:  {open: "10:00", close: "16:00"},
	time.Sunday:    {open: "10:00", close: "16:00"},
}

// treatmentDurations maps every recognized treatment type to its default
// appointment length in minutes.
var treatmentDurations = map[string]int{
	"blood_testing":     30,
	"prp":               60,
	"weight_management": 45,
	"iv_therapy":        45,
	"hormone_therapy":   45,
	"general_wellness":  30,
}

// DurationFor returns the default duration for a treatment type and whether
// the type is recognized. Unrecognized types get the 30-minute default.
func DurationFor(treatmentType string) (int, bool) {
	if d, ok := treatmentDurations[treatmentType]; ok {
		return d, true
	}
	return defaultDurationMinutes, false
}

// slotStarts enumerates the offerable start times for a weekday at the fixed
// cadence. The half-open interval [open, close) means a slot may start at
// open but never at close.
func slotStarts(day time.Weekday) []string {
	window, ok := businessHours[day]
	if !ok {
		return nil
	}

	start, err := time.Parse(TimeLayout, window.open)
	if err != nil {
		return nil
	}
	end, err := time.Parse(TimeLayout, window.close)
	if err != nil {
		return nil
	}

	var starts []string
	for t := start; t.Before(end); t = t.Add(slotInterval) {
		starts = append(starts, t.Format(TimeLayout))
	}
	return starts
}
