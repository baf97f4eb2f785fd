package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/products", http.StatusOK, 120*time.Millisecond)
	m.Observe(http.MethodGet, "/api/products", http.StatusOK, 80*time.Millisecond)
	m.Observe(http.MethodPost, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{"method": "GET", "route": "/api/products", "status": "200"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = fetchCounterValue(mfs, "http_requests_total", map[string]string{"route": "unknown", "status": "404"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	sum, err := fetchHistogramSum(mfs, "http_request_duration_seconds", map[string]string{"route": "/api/products"})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, sum, 0.0001)
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.OrderCreated(decimal.RequireFromString("25.00"))
	m.CheckoutFailed("cart_empty")
	m.CheckoutFailed("cart_empty")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "orders_created_total", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	sum, err := fetchHistogramSum(mfs, "order_total_amount", nil)
	require.NoError(t, err)
	assert.Equal(t, 25.0, sum)

	got, err = fetchCounterValue(mfs, "checkout_failures_total", map[string]string{"reason": "cart_empty"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var h *HTTPMetrics
	var c *CheckoutMetrics
	assert.NotPanics(t, func() {
		h.Observe(http.MethodGet, "/", http.StatusOK, time.Second)
		c.OrderCreated(decimal.NewFromInt(1))
		c.CheckoutFailed("x")
		NewHTTPMetrics(nil).Observe(http.MethodGet, "/", http.StatusOK, time.Second)
		NewCheckoutMetrics(nil).OrderCreated(decimal.Zero)
	})
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
