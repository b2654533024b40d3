package paychangu

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/agrilinkmw/agrilink-backend/pkg/metrics"
	"gorm.io/gorm"
)

const statusSuccess = "success"

// OrderStore is the narrow persistence surface reconciliation needs.
type OrderStore interface {
	FindOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) error
}

// WebhookEvent is the decoded provider callback.
type WebhookEvent struct {
	TxRef  string
	Status string
}

// Outcome reports what reconciliation did with a delivery.
type Outcome struct {
	OrderID   int64
	Paid      bool
	Failed    bool
	Duplicate bool
	Ignored   bool
}

// Service reconciles provider webhooks against order payment state. The
// webhook is the single source of truth for payment confirmation.
type Service interface {
	HandleEvent(ctx context.Context, event WebhookEvent) (*Outcome, error)
}

type service struct {
	orders  OrderStore
	guard   *IdempotencyGuard
	cfg     config.PayChanguConfig
	metrics *metrics.PaymentMetrics
	logg    *logger.Logger
}

// NewService builds the webhook reconciliation service.
func NewService(
	orders OrderStore,
	guard *IdempotencyGuard,
	cfg config.PayChanguConfig,
	paymentMetrics *metrics.PaymentMetrics,
	logg *logger.Logger,
) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	return &service{
		orders:  orders,
		guard:   guard,
		cfg:     cfg,
		metrics: paymentMetrics,
		logg:    logg,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, event WebhookEvent) (*Outcome, error) {
	s.metrics.IncWebhookReceived(event.Status)

	orderID, err := ParseTxRef(s.cfg.TxRefPrefix, event.TxRef)
	if err != nil {
		s.metrics.IncWebhookFailed("malformed_reference")
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id":        orderID,
			"provider_status": event.Status,
		})
	}

	if event.Status == statusSuccess {
		return s.applySuccess(ctx, orderID, event)
	}
	return s.applyNonSuccess(ctx, orderID, event)
}

func (s *service) applySuccess(ctx context.Context, orderID int64, event WebhookEvent) (*Outcome, error) {
	deliveryID := event.TxRef + ":" + event.Status
	fresh, err := s.guard.CheckAndMark(ctx, deliveryID)
	if err != nil {
		s.metrics.IncWebhookFailed("idempotency_store")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check webhook idempotency")
	}
	if !fresh {
		// Re-delivery of an already-applied success is acknowledged as-is.
		if s.logg != nil {
			s.logg.Info(ctx, "webhook replay suppressed")
		}
		return &Outcome{OrderID: orderID, Paid: true, Duplicate: true}, nil
	}

	outcome, err := s.markPaid(ctx, orderID)
	if err != nil {
		// Drop the mark so the provider's redelivery can retry.
		if relErr := s.guard.Release(ctx, deliveryID); relErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to release webhook idempotency mark")
		}
		return nil, err
	}
	return outcome, nil
}

func (s *service) markPaid(ctx context.Context, orderID int64) (*Outcome, error) {
	order, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncWebhookFailed("order_not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for transaction reference")
		}
		s.metrics.IncWebhookFailed("load_order")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.OrderStatus != enums.OrderStatusPending && order.OrderStatus != enums.OrderStatusFailed {
		// Already paid (or progressed into fulfillment). Setting paid again
		// would clobber fulfillment progress, so acknowledge without writing.
		return &Outcome{OrderID: orderID, Paid: true, Duplicate: true}, nil
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, enums.OrderStatusPaid); err != nil {
		s.metrics.IncWebhookFailed("update_order")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}

	s.metrics.IncOrderPaid()
	s.metrics.IncWebhookProcessed()
	if s.logg != nil {
		s.logg.Info(ctx, "order marked paid")
	}
	return &Outcome{OrderID: orderID, Paid: true}, nil
}

func (s *service) applyNonSuccess(ctx context.Context, orderID int64, event WebhookEvent) (*Outcome, error) {
	if s.cfg.FailureMode == config.PaymentFailureIgnore {
		// Default posture: acknowledge and leave the order pending.
		if s.logg != nil {
			s.logg.Info(ctx, "non-success webhook acknowledged without mutation")
		}
		return &Outcome{OrderID: orderID, Ignored: true}, nil
	}

	order, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncWebhookFailed("order_not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for transaction reference")
		}
		s.metrics.IncWebhookFailed("load_order")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	// Only a pending order can fail; a confirmed payment is never demoted.
	if order.OrderStatus != enums.OrderStatusPending {
		return &Outcome{OrderID: orderID, Ignored: true}, nil
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, enums.OrderStatusFailed); err != nil {
		s.metrics.IncWebhookFailed("update_order")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order failed")
	}

	s.metrics.IncWebhookProcessed()
	if s.logg != nil {
		s.logg.Info(ctx, "order marked failed")
	}
	return &Outcome{OrderID: orderID, Failed: true}, nil
}
