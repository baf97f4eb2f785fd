package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics tracks orders placed from carts.
type CheckoutMetrics struct {
	created  prometheus.Counter
	amount   prometheus.Histogram
	failures *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created from carts.",
	})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Total amount of created orders.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts rejected, by reason.",
	}, []string{"reason"})
	reg.MustRegister(created, amount, failures)
	return &CheckoutMetrics{created: created, amount: amount, failures: failures}
}

// OrderCreated records a successful checkout.
func (m *CheckoutMetrics) OrderCreated(total decimal.Decimal) {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
	m.amount.Observe(total.InexactFloat64())
}

// CheckoutFailed records a rejected checkout.
func (m *CheckoutMetrics) CheckoutFailed(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}
