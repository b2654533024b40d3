package orders

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PurchaseInput carries the purchase form fields. Quantity and delivery
// option arrive as strings from the form post and are validated in the
// service.
type PurchaseInput struct {
	CropID         int64
	Quantity       string
	DeliveryOption string
	PaymentNumber  string
}

// Order is the API projection of an order row.
type Order struct {
	ID             int64                `json:"id"`
	BuyerID        int64                `json:"buyer_id"`
	BuyerName      string               `json:"buyer_name,omitempty"`
	CropID         int64                `json:"crop_id"`
	CropName       string               `json:"crop_name,omitempty"`
	FarmerName     string               `json:"farmer_name,omitempty"`
	Quantity       decimal.Decimal      `json:"quantity"`
	TotalPrice     decimal.Decimal      `json:"total_price"`
	DeliveryOption enums.DeliveryOption `json:"delivery_option"`
	OrderStatus    enums.OrderStatus    `json:"order_status"`
	OrderDate      time.Time            `json:"order_date"`
}

// PurchaseResult returns the created order plus the provider checkout
// request the client forwards to the hosted payment page.
type PurchaseResult struct {
	Order    Order                     `json:"order"`
	Checkout paychangu.CheckoutRequest `json:"checkout"`
}

// ToOrder maps a model row into its API projection.
func ToOrder(order *models.Order) Order {
	out := Order{
		ID:             order.ID,
		BuyerID:        order.BuyerID,
		CropID:         order.CropID,
		Quantity:       order.Quantity,
		TotalPrice:     order.TotalPrice,
		DeliveryOption: order.DeliveryOption,
		OrderStatus:    order.OrderStatus,
		OrderDate:      order.OrderDate,
	}
	if order.Buyer != nil {
		out.BuyerName = order.Buyer.Name
	}
	if order.Crop != nil {
		out.CropName = order.Crop.CropName
		if order.Crop.Farmer != nil {
			out.FarmerName = order.Crop.Farmer.Name
		}
	}
	return out
}
