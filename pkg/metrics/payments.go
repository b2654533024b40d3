package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records webhook and order activity for the payment pipeline.
type PaymentMetrics struct {
	webhooksReceived  *prometheus.CounterVec
	webhooksProcessed prometheus.Counter
	webhooksFailed    *prometheus.CounterVec
	ordersCreated     *prometheus.CounterVec
	ordersPaid        prometheus.Counter
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	received := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhooks_received_total",
		Help: "Payment webhook deliveries received, by provider status.",
	}, []string{"status"})
	processed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_webhooks_processed_total",
		Help: "Payment webhook deliveries that resulted in a state change.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhooks_failed_total",
		Help: "Payment webhook deliveries rejected or errored, by reason.",
	}, []string{"reason"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, by delivery option.",
	}, []string{"delivery_option"})
	ordersPaid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_paid_total",
		Help: "Orders confirmed paid via webhook reconciliation.",
	})
	reg.MustRegister(received, processed, failed, ordersCreated, ordersPaid)
	return &PaymentMetrics{
		webhooksReceived:  received,
		webhooksProcessed: processed,
		webhooksFailed:    failed,
		ordersCreated:     ordersCreated,
		ordersPaid:        ordersPaid,
	}
}

// IncWebhookReceived counts a delivery tagged with the provider status field.
func (m *PaymentMetrics) IncWebhookReceived(status string) {
	if m == nil || m.webhooksReceived == nil {
		return
	}
	m.webhooksReceived.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncWebhookProcessed counts a delivery that mutated an order.
func (m *PaymentMetrics) IncWebhookProcessed() {
	if m == nil || m.webhooksProcessed == nil {
		return
	}
	m.webhooksProcessed.Inc()
}

// IncWebhookFailed counts a rejected delivery with the failure reason.
func (m *PaymentMetrics) IncWebhookFailed(reason string) {
	if m == nil || m.webhooksFailed == nil {
		return
	}
	m.webhooksFailed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncOrderCreated counts a new order by delivery option.
func (m *PaymentMetrics) IncOrderCreated(deliveryOption string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(deliveryOption)).Inc()
}

// IncOrderPaid counts an order transitioning to paid.
func (m *PaymentMetrics) IncOrderPaid() {
	if m == nil || m.ordersPaid == nil {
		return
	}
	m.ordersPaid.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
