package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/internal/crops"
	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/agrilinkmw/agrilink-backend/pkg/mailer"
	"github.com/agrilinkmw/agrilink-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the order lifecycle beyond repository reads.
type Service interface {
	Purchase(ctx context.Context, buyerID int64, input PurchaseInput) (*PurchaseResult, error)
	SetFulfillmentStatus(ctx context.Context, farmerID, orderID int64, newStatus string) (*Order, error)
	Get(ctx context.Context, actorID int64, actorRole enums.UserRole, orderID int64) (*Order, error)
	ListOwn(ctx context.Context, buyerID int64) ([]Order, error)
	ListSales(ctx context.Context, farmerID int64) ([]Order, error)
}

type service struct {
	repo     Repository
	cropRepo crops.Repository
	userRepo users.Repository
	payments *paychangu.PayloadBuilder
	mail     mailer.Mailer
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
	payCfg   config.PayChanguConfig
}

// NewService builds an orders service with the required dependencies.
func NewService(
	repo Repository,
	cropRepo crops.Repository,
	userRepo users.Repository,
	payments *paychangu.PayloadBuilder,
	mail mailer.Mailer,
	paymentMetrics *metrics.PaymentMetrics,
	logg *logger.Logger,
	payCfg config.PayChanguConfig,
) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders repository required")
	}
	if cropRepo == nil {
		return nil, errors.New("crops repository required")
	}
	if userRepo == nil {
		return nil, errors.New("users repository required")
	}
	if payments == nil {
		return nil, errors.New("payment payload builder required")
	}
	if mail == nil {
		return nil, errors.New("mailer required")
	}
	return &service{
		repo:     repo,
		cropRepo: cropRepo,
		userRepo: userRepo,
		payments: payments,
		mail:     mail,
		metrics:  paymentMetrics,
		logg:     logg,
		payCfg:   payCfg,
	}, nil
}

func (s *service) Purchase(ctx context.Context, buyerID int64, input PurchaseInput) (*PurchaseResult, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(input.Quantity))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a number")
	}
	if !quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	deliveryOption, err := enums.ParseDeliveryOption(strings.TrimSpace(input.DeliveryOption))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery option must be pickup or delivery")
	}

	paymentNumber := strings.TrimSpace(input.PaymentNumber)
	if paymentNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment number is required")
	}

	crop, err := s.cropRepo.FindByID(ctx, input.CropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load crop")
	}

	if crop.FarmerID == buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot purchase your own listing")
	}

	total := quantity.Mul(crop.Price)
	if deliveryOption == enums.DeliveryOptionDelivery {
		total = total.Add(s.payCfg.DeliveryFeeAmount())
	}

	order := &models.Order{
		BuyerID:        buyerID,
		CropID:         crop.ID,
		Quantity:       quantity,
		TotalPrice:     total,
		DeliveryOption: deliveryOption,
		PaymentNumber:  &paymentNumber,
		OrderStatus:    enums.OrderStatusPending,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.metrics.IncOrderCreated(string(deliveryOption))

	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}

	checkout := s.payments.BuildCheckoutRequest(paychangu.CheckoutInput{
		OrderID:    created.ID,
		Total:      created.TotalPrice,
		BuyerEmail: buyer.Email,
		BuyerName:  buyer.Name,
		CropName:   crop.CropName,
	})

	created.Buyer = buyer
	created.Crop = crop
	return &PurchaseResult{Order: ToOrder(created), Checkout: checkout}, nil
}

func (s *service) SetFulfillmentStatus(ctx context.Context, farmerID, orderID int64, newStatus string) (*Order, error) {
	status, err := enums.ParseOrderStatus(strings.TrimSpace(newStatus))
	if err != nil || !status.IsFulfillment() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be processing, shipped or delivered")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Crop == nil || order.Crop.FarmerID != farmerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller's crops")
	}

	if order.OrderStatus == status {
		out := ToOrder(order)
		return &out, nil
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.OrderStatus = status

	s.notifyBuyer(ctx, order, status)

	out := ToOrder(order)
	return &out, nil
}

func (s *service) Get(ctx context.Context, actorID int64, actorRole enums.UserRole, orderID int64) (*Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	allowed := actorRole == enums.UserRoleAdmin ||
		order.BuyerID == actorID ||
		(order.Crop != nil && order.Crop.FarmerID == actorID)
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is not visible to caller")
	}

	out := ToOrder(order)
	return &out, nil
}

func (s *service) ListOwn(ctx context.Context, buyerID int64) ([]Order, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return mapOrders(rows), nil
}

func (s *service) ListSales(ctx context.Context, farmerID int64) ([]Order, error) {
	rows, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer sales")
	}
	return mapOrders(rows), nil
}

// notifyBuyer emails the buyer about a fulfillment change. Delivery failures
// are logged, never surfaced: the status update already committed.
func (s *service) notifyBuyer(ctx context.Context, order *models.Order, status enums.OrderStatus) {
	if order.Buyer == nil {
		return
	}
	cropName := ""
	if order.Crop != nil {
		cropName = order.Crop.CropName
	}
	msg := mailer.Message{
		ToName:    order.Buyer.Name,
		ToAddress: order.Buyer.Email,
		Subject:   fmt.Sprintf("Order #%d is now %s", order.ID, status),
		Body:      fmt.Sprintf("Hello %s,\n\nYour order #%d for %s is now %s.\n", order.Buyer.Name, order.ID, cropName, status),
	}
	if err := s.mail.Send(ctx, msg); err != nil && s.logg != nil {
		s.logg.Error(ctx, "fulfillment notification mail failed", err)
	}
}

func mapOrders(rows []models.Order) []Order {
	out := make([]Order, 0, len(rows))
	for i := range rows {
		out = append(out, ToOrder(&rows[i]))
	}
	return out
}
