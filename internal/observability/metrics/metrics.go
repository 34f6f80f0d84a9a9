package metrics

import "github.com/prometheus/client_golang/prometheus"

// QualificationMetrics exposes counters for lead scoring outcomes.
type QualificationMetrics struct {
	qualificationsTotal *prometheus.CounterVec
}

func NewQualificationMetrics(reg prometheus.Registerer) *QualificationMetrics {
	m := &QualificationMetrics{
		qualificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellness",
			Subsystem: "qualification",
			Name:      "results_total",
			Help:      "Total completed lead qualifications",
		}, []string{"treatment_type", "urgency_level", "qualified"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.qualificationsTotal)
	return m
}

func (m *QualificationMetrics) ObserveQualification(treatmentType, urgencyLevel string, qualified bool) {
	if m == nil {
		return
	}
	label := "false"
	if qualified {
		label = "true"
	}
	m.qualificationsTotal.WithLabelValues(treatmentType, urgencyLevel, label).Inc()
}

// SchedulingMetrics exposes counters/histograms for appointment flows.
type SchedulingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	remindersTotal  *prometheus.CounterVec
	bookingDuration *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellness",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellness",
			Subsystem: "scheduling",
			Name:      "reminders_total",
			Help:      "Total appointment reminders by send status",
		}, []string{"status"}),
		bookingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wellness",
			Subsystem: "scheduling",
			Name:      "booking_duration_seconds",
			Help:      "Latency of booking operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.remindersTotal, m.bookingDuration)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveBookingDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingDuration.WithLabelValues(operation).Observe(seconds)
}
