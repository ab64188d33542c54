package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout submissions and pricing health.
type CheckoutMetrics struct {
	submitted       *prometheus.CounterVec
	failed          *prometheus.CounterVec
	duration        prometheus.Histogram
	orderTotal      *prometheus.HistogramVec
	rateUnavailable *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submitted_total",
		Help: "Orders recorded by checkout submission.",
	}, []string{"payment_method", "discounted"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Checkout submissions that did not record an order.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	orderTotal := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_order_total_usd",
		Help:    "Payable order totals in USD.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"discounted"})
	rateUnavailable := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_rate_unavailable_total",
		Help: "Price computations served without a usable exchange rate.",
	}, []string{"currency"})
	reg.MustRegister(submitted, failed, duration, orderTotal, rateUnavailable)
	return &CheckoutMetrics{
		submitted:       submitted,
		failed:          failed,
		duration:        duration,
		orderTotal:      orderTotal,
		rateUnavailable: rateUnavailable,
	}
}

// ObserveSubmitted counts a recorded order and its payable USD total.
func (m *CheckoutMetrics) ObserveSubmitted(method string, discounted bool, totalUSD float64) {
	if m == nil || m.submitted == nil {
		return
	}
	label := boolLabel(discounted)
	m.submitted.WithLabelValues(normalizeLabel(method), label).Inc()
	m.orderTotal.WithLabelValues(label).Observe(totalUSD)
}

// IncFailure counts a submission that ended without an order.
func (m *CheckoutMetrics) IncFailure(reason string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveDuration records how long a submission took.
func (m *CheckoutMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

// IncRateUnavailable counts a response priced without a usable rate.
func (m *CheckoutMetrics) IncRateUnavailable(currency string) {
	if m == nil || m.rateUnavailable == nil {
		return
	}
	m.rateUnavailable.WithLabelValues(normalizeLabel(currency)).Inc()
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
