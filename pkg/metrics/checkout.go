package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records metadata for the payment flow.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	confirmed *prometheus.CounterVec
	failure   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Time between opening payment and confirming an order.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	confirmed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Orders confirmed at the terminal.",
	}, []string{"method"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts rejected or failed.",
	}, []string{"reason"})
	reg.MustRegister(duration, confirmed, failure)
	return &CheckoutMetrics{
		duration:  duration,
		confirmed: confirmed,
		failure:   failure,
	}
}

// ObserveDuration records how long a payment took from open to confirm.
func (c *CheckoutMetrics) ObserveDuration(method string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncConfirmed increments the confirmed order counter for the payment method.
func (c *CheckoutMetrics) IncConfirmed(method string) {
	if c == nil || c.confirmed == nil {
		return
	}
	c.confirmed.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncFailure increments the failure counter for the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
