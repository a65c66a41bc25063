// Package metrics holds the service's Prometheus counters.  They live in a
// private registry exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the custom counters.  A nil *Metrics records nothing,
// which keeps tests free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	Logins        *prometheus.CounterVec
	Registrations *prometheus.CounterVec
	Bookings      *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// New creates a registry with the Go and process collectors plus the
// service counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentals_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentals_registrations_total",
				Help: "Registration attempts by result",
			},
			[]string{"result"},
		),
		Bookings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentals_bookings_total",
				Help: "Booking requests by result",
			},
			[]string{"result"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentals_notifications_total",
				Help: "Email notifications by result (sent, failed, dropped)",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.Logins, m.Registrations, m.Bookings, m.Notifications)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Login(result string) {
	if m != nil {
		m.Logins.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Registration(result string) {
	if m != nil {
		m.Registrations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Booking(result string) {
	if m != nil {
		m.Bookings.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Notification(result string) {
	if m != nil {
		m.Notifications.WithLabelValues(result).Inc()
	}
}
