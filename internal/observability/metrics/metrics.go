// Package metrics exposes prometheus instrumentation for the booking flows.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for availability and booking flows.
type BookingMetrics struct {
	dayViewTotal        *prometheus.CounterVec
	fallbackTotal       prometheus.Counter
	bookingsTotal       *prometheus.CounterVec
	commitConflictTotal prometheus.Counter
	dayViewLatency      prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		dayViewTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "availability",
			Name:      "day_view_total",
			Help:      "Total day-view availability computations",
		}, []string{"status"}),
		fallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "availability",
			Name:      "blackout_fallback_total",
			Help:      "Day views served without blackout data after a fetch failure",
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total bookings created",
		}, []string{"discount"}),
		commitConflictTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "bookings",
			Name:      "commit_conflict_total",
			Help:      "Bookings rejected by the commit-time conflict re-check",
		}),
		dayViewLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "availability",
			Name:      "day_view_latency_seconds",
			Help:      "Latency of day-view availability computations",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dayViewTotal, m.fallbackTotal, m.bookingsTotal, m.commitConflictTotal, m.dayViewLatency)
	return m
}

func (m *BookingMetrics) ObserveDayView(status string, seconds float64) {
	if m == nil {
		return
	}
	m.dayViewTotal.WithLabelValues(status).Inc()
	m.dayViewLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveBlackoutFallback() {
	if m == nil {
		return
	}
	m.fallbackTotal.Inc()
}

func (m *BookingMetrics) ObserveBookingCreated(discount string) {
	if m == nil {
		return
	}
	if discount == "" {
		discount = "none"
	}
	m.bookingsTotal.WithLabelValues(discount).Inc()
}

func (m *BookingMetrics) ObserveCommitConflict() {
	if m == nil {
		return
	}
	m.commitConflictTotal.Inc()
}
