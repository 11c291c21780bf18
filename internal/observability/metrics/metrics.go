package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for the booking, tip, payment, and email flows.
type Metrics struct {
	bookingsConfirmed prometheus.Counter
	tipsServed        *prometheus.CounterVec
	paymentsVerified  *prometheus.CounterVec
	emailsSent        *prometheus.CounterVec
}

// New registers the application counters on reg (DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookingsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neoncare",
			Subsystem: "bookings",
			Name:      "confirmed_total",
			Help:      "Total bookings confirmed",
		}),
		tipsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neoncare",
			Subsystem: "tips",
			Name:      "served_total",
			Help:      "Total tip requests by outcome",
		}, []string{"outcome"}),
		paymentsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neoncare",
			Subsystem: "payments",
			Name:      "verified_total",
			Help:      "Total payment verifications by status",
		}, []string{"status"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neoncare",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Total outbound emails by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsConfirmed, m.tipsServed, m.paymentsVerified, m.emailsSent)
	return m
}

func (m *Metrics) BookingConfirmed() {
	if m == nil {
		return
	}
	m.bookingsConfirmed.Inc()
}

func (m *Metrics) TipServed(outcome string) {
	if m == nil {
		return
	}
	m.tipsServed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PaymentVerified(status string) {
	if m == nil {
		return
	}
	m.paymentsVerified.WithLabelValues(status).Inc()
}

func (m *Metrics) EmailSent(status string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(status).Inc()
}
