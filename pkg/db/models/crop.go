package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Crop is a farmer-owned listing. Only the owning farmer may mutate or
// delete it; price is per-unit in MWK.
type Crop struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FarmerID    int64           `gorm:"column:farmer_id;not null;index"`
	CropName    string          `gorm:"column:crop_name;not null"`
	Quantity    string          `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	Quality     *string         `gorm:"column:quality"`
	CropGrade   *string         `gorm:"column:crop_grade"`
	HarvestDate *string         `gorm:"column:harvest_date"`
	Location    *string         `gorm:"column:location"`
	Image       *string         `gorm:"column:image"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`

	Farmer *User `gorm:"foreignKey:FarmerID"`
}
