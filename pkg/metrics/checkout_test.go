package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)

	metrics.ObserveSubmitted("zelle", true, 45)
	metrics.ObserveSubmitted("zelle", true, 10)
	metrics.IncFailure("validation")
	metrics.IncFailure("")
	metrics.ObserveDuration(120 * time.Millisecond)
	metrics.IncRateUnavailable("eur")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_submitted_total", "payment_method", "zelle"); err != nil {
		t.Fatalf("fetch submitted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected submitted=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_failed_total", "reason", "validation"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_failed_total", "reason", "unknown"); err != nil {
		t.Fatalf("fetch unknown reason: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_order_total_usd", "discounted", "true"); err != nil {
		t.Fatalf("fetch order total: %v", err)
	} else if got != 55 {
		t.Fatalf("expected order total sum 55, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pricing_rate_unavailable_total", "currency", "eur"); err != nil {
		t.Fatalf("fetch rate unavailable: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rate unavailable=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "checkout_submit_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one duration sample")
	}
}

func TestNilCheckoutMetricsAreNoOps(t *testing.T) {
	var nilMetrics *CheckoutMetrics
	nilMetrics.ObserveSubmitted("cash", false, 1)
	nilMetrics.IncFailure("x")
	nilMetrics.ObserveDuration(time.Second)
	nilMetrics.IncRateUnavailable("usd")

	unregistered := NewCheckoutMetrics(nil)
	unregistered.ObserveSubmitted("cash", false, 1)
	unregistered.IncRateUnavailable("usd")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
