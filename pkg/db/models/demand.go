package models

import "time"

// Demand is a buyer-owned posting describing crops they want to source.
type Demand struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BuyerID   int64     `gorm:"column:buyer_id;not null;index"`
	CropName  string    `gorm:"column:crop_name;not null"`
	Quantity  string    `gorm:"column:quantity;not null"`
	Location  *string   `gorm:"column:location"`
	Quality   *string   `gorm:"column:quality"`
	Message   *string   `gorm:"column:message"`
	Image     *string   `gorm:"column:image"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Buyer *User `gorm:"foreignKey:BuyerID"`
}
