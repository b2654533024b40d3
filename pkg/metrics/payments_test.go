package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPaymentMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPaymentMetrics(reg)

	metrics.IncWebhookReceived("success")
	metrics.IncWebhookReceived("success")
	metrics.IncWebhookReceived("")
	metrics.IncWebhookProcessed()
	metrics.IncWebhookFailed("invalid_signature")
	metrics.IncOrderCreated("delivery")
	metrics.IncOrderPaid()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "payment_webhooks_received_total", "status", "success"); err != nil {
		t.Fatalf("fetch received: %v", err)
	} else if got != 2 {
		t.Fatalf("expected received=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payment_webhooks_received_total", "status", "unknown"); err != nil {
		t.Fatalf("fetch received unknown: %v", err)
	} else if got != 1 {
		t.Fatalf("expected empty status to count as unknown, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payment_webhooks_failed_total", "reason", "invalid_signature"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "orders_created_total", "delivery_option", "delivery"); err != nil {
		t.Fatalf("fetch created: %v", err)
	} else if got != 1 {
		t.Fatalf("expected created=1, got %f", got)
	}
}

func TestPaymentMetricsNilSafe(t *testing.T) {
	var metrics *PaymentMetrics
	metrics.IncWebhookReceived("success")
	metrics.IncWebhookProcessed()
	metrics.IncWebhookFailed("x")
	metrics.IncOrderCreated("pickup")
	metrics.IncOrderPaid()

	unregistered := NewPaymentMetrics(nil)
	unregistered.IncOrderPaid()
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
