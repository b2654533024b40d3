package models

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a buyer's purchase intent against a crop listing. The webhook is
// the only path that flips payment state; fulfillment states are set by the
// crop's farmer.
type Order struct {
	ID             int64                `gorm:"column:id;primaryKey;autoIncrement"`
	BuyerID        int64                `gorm:"column:buyer_id;not null;index"`
	CropID         int64                `gorm:"column:crop_id;not null;index"`
	Quantity       decimal.Decimal      `gorm:"column:quantity;type:numeric;not null"`
	TotalPrice     decimal.Decimal      `gorm:"column:total_price;type:numeric;not null"`
	DeliveryOption enums.DeliveryOption `gorm:"column:delivery_option;type:text;not null"`
	PaymentNumber  *string              `gorm:"column:payment_number"`
	OrderStatus    enums.OrderStatus    `gorm:"column:order_status;type:text;not null;default:'pending'"`
	OrderDate      time.Time            `gorm:"column:order_date;autoCreateTime"`

	Buyer *User `gorm:"foreignKey:BuyerID"`
	Crop  *Crop `gorm:"foreignKey:CropID"`
}
